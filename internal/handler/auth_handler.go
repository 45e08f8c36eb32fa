package handler

import (
	"errors"
	"net/http"

	"github.com/berichtsheft/internal/db"
	"github.com/berichtsheft/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionUserKey = "user_id"
const contextUserKey = "__current_user"

// Register creates a new account and opens a session for it.
func (a *API) Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name" binding:"required"`
		Role     string `json:"role" binding:"required"`
		Company  string `json:"company"`
	}
	if !bindJSON(c, &input, "Ungültige Registrierungsdaten") {
		return
	}

	user, err := a.users.Register(service.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
		Role:     input.Role,
		Company:  input.Company,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, http.StatusConflict, "E-Mail bereits registriert")
		case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "Registrierung fehlgeschlagen")
		}
		return
	}

	if err := a.openSession(c, user); err != nil {
		respondError(c, http.StatusInternalServerError, "Sitzung konnte nicht gespeichert werden")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login authenticates by email and password.
func (a *API) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &input, "Ungültige Anmeldedaten") {
		return
	}

	user, err := a.users.Authenticate(input.Email, input.Password)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "E-Mail oder Passwort falsch")
		return
	}

	if err := a.openSession(c, user); err != nil {
		respondError(c, http.StatusInternalServerError, "Sitzung konnte nicht gespeichert werden")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout clears the session.
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "Abmeldung fehlgeschlagen")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Abgemeldet"})
}

// Me returns the signed-in user.
func (a *API) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (a *API) openSession(c *gin.Context, user *db.User) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	return session.Save()
}

// AuthRequired resolves the session user and aborts unauthenticated requests.
// The resolved user rides on the request context; handlers never consult
// ambient state.
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get(sessionUserKey)
		userID, ok := raw.(uint)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Nicht angemeldet")
			c.Abort()
			return
		}

		user, err := a.users.Get(userID)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Nicht angemeldet")
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// AusbilderRequired additionally demands the trainer role.
func (a *API) AusbilderRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsAusbilder() {
			respondError(c, http.StatusForbidden, "Nur für Ausbilder")
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUser returns the user resolved by AuthRequired, or nil.
func currentUser(c *gin.Context) *db.User {
	if cached, exists := c.Get(contextUserKey); exists {
		if user, ok := cached.(*db.User); ok {
			return user
		}
	}
	return nil
}
