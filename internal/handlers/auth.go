package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/keeper-realm/api/internal/auth"
	"github.com/keeper-realm/api/internal/database"
	"github.com/keeper-realm/api/internal/middleware"
	redisClient "github.com/keeper-realm/api/internal/redis"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	db    *database.DB
	redis *redisClient.Client
}

func NewAuthHandler(db *database.DB, redis *redisClient.Client) *AuthHandler {
	return &AuthHandler{db: db, redis: redis}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	PlayerName string `json:"playerName"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse carries the new player's identifier
type RegisterResponse struct {
	UserID int `json:"userId"`
}

// LoginResponse carries the player's identifier and login token
type LoginResponse struct {
	UserID int    `json:"userId"`
	Token  string `json:"token"`
}

// AdminLoginResponse carries the admin authorization result
type AdminLoginResponse struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
	Token   string `json:"token,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Register handles player registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	// Validate input
	if err := validateRegisterRequest(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
		return
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[Auth] Failed to hash password: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to create player"})
		return
	}

	// The registration ordinal comes from the shared counter; bumping it in
	// the same transaction as the insert keeps the sequence gapless.
	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		log.Printf("[Auth] Failed to begin registration: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to create player"})
		return
	}
	defer tx.Rollback()

	order, err := database.NextCounter(tx, database.CounterPlayerOrder)
	if err != nil {
		log.Printf("[Auth] Failed to assign player order: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to create player"})
		return
	}

	var playerID int
	query := `
		INSERT INTO players (email, password_hash, player_name, player_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = tx.QueryRow(query, req.Email, string(hashedPassword), req.PlayerName, order).Scan(&playerID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Email already registered"})
			return
		}
		log.Printf("[Auth] Failed to insert player: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to create player"})
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[Auth] Failed to commit registration: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to create player"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(RegisterResponse{UserID: playerID})

	log.Printf("[Auth] Player registered successfully: %s (ID: %d, order %d)", req.PlayerName, playerID, order)
}

// Login handles player authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Email and password are required"})
		return
	}

	var playerID int
	var playerName, passwordHash string
	var isBanned bool
	query := `SELECT id, player_name, password_hash, is_banned FROM players WHERE email = $1`
	err := h.db.QueryRow(query, req.Email).Scan(&playerID, &playerName, &passwordHash, &isBanned)
	if err != nil {
		if err == sql.ErrNoRows {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid email or password"})
			return
		}
		log.Printf("[Auth] Failed to fetch player: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
		return
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid email or password"})
		return
	}

	// Banned accounts cannot log in
	if isBanned {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "This account has been banned."})
		return
	}

	// Touch last login
	if _, err := h.db.Exec(`UPDATE players SET last_login = $1 WHERE id = $2`, time.Now().UTC(), playerID); err != nil {
		log.Printf("[Auth] Failed to update last login for player %d: %v", playerID, err)
	}

	token, err := auth.GenerateToken(playerID, playerName, req.Email)
	if err != nil {
		log.Printf("[Auth] Failed to generate token: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to generate token"})
		return
	}

	// Session state is best-effort; the token itself stays valid without it
	h.storeSession(r, token, playerID, playerName, req.Email, false)

	json.NewEncoder(w).Encode(LoginResponse{UserID: playerID, Token: token})

	log.Printf("[Auth] Player logged in successfully: %s (ID: %d)", playerName, playerID)
}

// AdminLogin authorizes an admin by allow-list membership plus account
// credentials
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	isAdmin, err := h.db.IsAdminEmail(req.Email)
	if err != nil {
		log.Printf("[Auth] Failed to check admin allow-list: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
		return
	}
	if !isAdmin {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(AdminLoginResponse{Success: false, Email: req.Email})
		return
	}

	var playerID int
	var playerName, passwordHash string
	query := `SELECT id, player_name, password_hash FROM players WHERE email = $1`
	err = h.db.QueryRow(query, req.Email).Scan(&playerID, &playerName, &passwordHash)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(playerID, playerName, req.Email)
	if err != nil {
		log.Printf("[Auth] Failed to generate admin token: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to generate token"})
		return
	}

	h.storeSession(r, token, playerID, playerName, req.Email, true)

	json.NewEncoder(w).Encode(AdminLoginResponse{Success: true, Email: req.Email, Token: token})

	log.Printf("[Auth] Admin logged in: %s", req.Email)
}

// Logout deletes the player's session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	token, ok := middleware.BearerToken(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Missing authorization header"})
		return
	}

	if err := h.redis.DeleteSession(r.Context(), token); err != nil {
		log.Printf("[Auth] Failed to delete session: %v", err)
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
}

func (h *AuthHandler) storeSession(r *http.Request, token string, playerID int, playerName, email string, admin bool) {
	now := time.Now().UTC()
	session := &redisClient.SessionData{
		PlayerID:   playerID,
		PlayerName: playerName,
		Email:      email,
		IsAdmin:    admin,
		CreatedAt:  now,
		ExpiresAt:  now.Add(auth.TokenDuration),
	}
	if err := h.redis.SetSession(r.Context(), token, session, auth.TokenDuration); err != nil {
		log.Printf("[Auth] Failed to store session for player %d: %v", playerID, err)
	}
}

// validateRegisterRequest validates the registration request
func validateRegisterRequest(req *RegisterRequest) error {
	if req.Email == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	if !strings.Contains(req.Email, "@") {
		return &ValidationError{Field: "email", Message: "Invalid email format"}
	}
	if req.Password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	if len(req.Password) < 6 {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}
	if req.PlayerName == "" {
		return &ValidationError{Field: "playerName", Message: "Player name is required"}
	}
	if len(req.PlayerName) < 3 || len(req.PlayerName) > 50 {
		return &ValidationError{Field: "playerName", Message: "Player name must be between 3 and 50 characters"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
