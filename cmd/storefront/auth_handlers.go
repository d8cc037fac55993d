package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flourever/storefront/internal/auth"
	"github.com/flourever/storefront/internal/config"
	"github.com/flourever/storefront/internal/mail"
	"github.com/flourever/storefront/internal/user"
)

func userToken(secret []byte, u *user.User) string {
	return auth.Sign(secret, auth.Claims{
		UserID:  u.ID,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
		Exp:     time.Now().Add(auth.UserTokenTTL).Unix(),
	})
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	Birthday  string `json:"birthday"`
}

// signupHandler mails the verification code before creating the row, so a
// bad address never leaves an unverifiable account behind.
func signupHandler(users user.Repository, mailer mail.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			c.JSON(400, gin.H{"error": "email and password are required"})
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error during signup."})
			return
		}
		code := auth.GenerateCode()
		if err := mailer.Send(c.Request.Context(), req.Email,
			"Your FlourEver Verification Code",
			fmt.Sprintf("Your code is: %s", code)); err != nil {
			c.JSON(500, gin.H{"error": "Failed to send email. Please check the address."})
			return
		}
		u := &user.User{
			Email:            req.Email,
			PasswordHash:     hash,
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			Gender:           req.Gender,
			Birthday:         req.Birthday,
			VerificationCode: &code,
		}
		if err := users.Create(c.Request.Context(), u); err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(400, gin.H{"error": "Email already exists."})
				return
			}
			c.JSON(500, gin.H{"error": "Server error during signup."})
			return
		}
		c.JSON(201, gin.H{"message": "Signup successful! Please check your email to verify."})
	}
}

func verifyHandler(users user.Repository, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
			Code  string `json:"code"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "invalid json"})
			return
		}
		u, err := users.GetByEmailAndCode(c.Request.Context(), req.Email, req.Code)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid code."})
			return
		}
		if err := users.SetVerified(c.Request.Context(), u.ID); err != nil {
			c.JSON(500, gin.H{"error": "Server error."})
			return
		}
		c.JSON(200, gin.H{
			"message": "Verified!",
			"token":   userToken(secret, u),
			"user": gin.H{
				"id":        u.ID,
				"firstName": u.FirstName,
				"email":     u.Email,
				"isAdmin":   u.IsAdmin,
			},
		})
	}
}

func resendCodeHandler(users user.Repository, mailer mail.Mailer) gin.HandlerFunc {
	return sendCodeHandler(users, mailer, "New Verification Code",
		"Your new code is: %s", "Code resent successfully!")
}

func forgotPasswordHandler(users user.Repository, mailer mail.Mailer) gin.HandlerFunc {
	return sendCodeHandler(users, mailer, "Reset Your Password",
		"Your password reset code is: %s", "Reset code sent!")
}

// sendCodeHandler covers resend-verification and forgot-password: both mail a
// fresh code and stash it on the user row.
func sendCodeHandler(users user.Repository, mailer mail.Mailer, subject, bodyFmt, okMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
			c.JSON(400, gin.H{"error": "email is required"})
			return
		}
		if _, err := users.GetByEmail(c.Request.Context(), req.Email); err != nil {
			c.JSON(404, gin.H{"error": "Email not found."})
			return
		}
		code := auth.GenerateCode()
		if err := mailer.Send(c.Request.Context(), req.Email, subject, fmt.Sprintf(bodyFmt, code)); err != nil {
			c.JSON(500, gin.H{"error": "Could not send email. Try again later."})
			return
		}
		if err := users.SetVerificationCode(c.Request.Context(), req.Email, code); err != nil {
			c.JSON(500, gin.H{"error": "Server error."})
			return
		}
		c.JSON(200, gin.H{"message": okMsg})
	}
}

// loginHandler godoc
// @Summary Log in and receive a bearer token
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} httpx.HTTPError
// @Failure 403 {object} map[string]any
// @Router /api/login [post]
func loginHandler(users user.Repository, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "invalid json"})
			return
		}
		u, err := users.GetByEmail(c.Request.Context(), req.Email)
		if err != nil {
			c.JSON(400, gin.H{"error": "User not found."})
			return
		}
		if !u.IsVerified {
			c.JSON(403, gin.H{
				"error":             "Please verify your email first.",
				"needsVerification": true,
				"email":             u.Email,
			})
			return
		}
		if !auth.CheckPassword(u.PasswordHash, req.Password) {
			c.JSON(400, gin.H{"error": "Invalid password."})
			return
		}
		c.JSON(200, gin.H{
			"message": "Logged in!",
			"token":   userToken(secret, u),
			"user": gin.H{
				"id":                   u.ID,
				"firstName":            u.FirstName,
				"email":                u.Email,
				"isAdmin":              u.IsAdmin,
				"defaultContactNumber": u.DefaultContactNumber,
				"savedAddress": gin.H{
					"details":      u.DefaultAddress,
					"coordinates":  gin.H{"lat": u.DefaultLat, "lng": u.DefaultLng},
					"instructions": u.DefaultInstructions,
				},
			},
		})
	}
}

func resetPasswordHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email       string `json:"email"`
			Code        string `json:"code"`
			NewPassword string `json:"newPassword"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.NewPassword == "" {
			c.JSON(400, gin.H{"error": "invalid request"})
			return
		}
		if _, err := users.GetByEmailAndCode(c.Request.Context(), req.Email, req.Code); err != nil {
			c.JSON(400, gin.H{"error": "Invalid code."})
			return
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			c.JSON(500, gin.H{"error": "Server error."})
			return
		}
		if err := users.UpdatePassword(c.Request.Context(), req.Email, hash); err != nil {
			c.JSON(500, gin.H{"error": "Server error."})
			return
		}
		c.JSON(200, gin.H{"message": "Password changed successfully!"})
	}
}

// adminLoginHandler checks the configured credentials and issues a short-lived
// admin token. Login is refused outright when no admin password is configured.
func adminLoginHandler(cfg config.Config, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "invalid json"})
			return
		}
		if cfg.AdminPassword == "" ||
			req.Username != cfg.AdminUsername || req.Password != cfg.AdminPassword {
			c.JSON(401, gin.H{"error": "Invalid admin credentials"})
			return
		}
		tok := auth.Sign(secret, auth.Claims{
			Email:   cfg.AdminUsername,
			IsAdmin: true,
			Exp:     time.Now().Add(auth.AdminTokenTTL).Unix(),
		})
		c.JSON(200, gin.H{
			"message": "Admin login successful!",
			"token":   tok,
			"admin":   gin.H{"username": cfg.AdminUsername},
		})
	}
}
