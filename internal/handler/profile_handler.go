package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/berichtsheft/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UpdateProfile applies the mutable profile fields of the signed-in user.
func (a *API) UpdateProfile(c *gin.Context) {
	user := currentUser(c)

	var input struct {
		FullName  string `json:"full_name"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Company   string `json:"company"`
	}
	if !bindJSON(c, &input, "Ungültige Profildaten") {
		return
	}

	updated, err := a.users.UpdateProfile(user.ID, service.ProfileInput{
		FullName:  input.FullName,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Company:   input.Company,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Profil konnte nicht gespeichert werden")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated})
}

// UpdateSignature stores a signature for the signed-in user: either an
// uploaded image file or a typed text signature.
func (a *API) UpdateSignature(c *gin.Context) {
	user := currentUser(c)

	// Multipart upload takes precedence over a typed signature.
	if file, err := c.FormFile("image"); err == nil {
		contentType := file.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			respondError(c, http.StatusBadRequest, "Nur Bilddateien sind erlaubt")
			return
		}

		if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
			respondError(c, http.StatusInternalServerError, "Upload-Verzeichnis konnte nicht angelegt werden")
			return
		}

		ext := filepath.Ext(file.Filename)
		newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
		if err := c.SaveUploadedFile(file, filepath.Join(a.uploadDir, newFilename)); err != nil {
			respondError(c, http.StatusInternalServerError, "Datei konnte nicht gespeichert werden")
			return
		}

		fileURL := fmt.Sprintf("%s/%s", strings.TrimRight(a.uploadURL, "/"), newFilename)
		updated, err := a.users.UpdateSignature(user.ID, fileURL)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Unterschrift konnte nicht gespeichert werden")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": updated, "url": fileURL})
		return
	}

	var input struct {
		Signature string `json:"signature" binding:"required"`
	}
	if !bindJSON(c, &input, "Ungültige Unterschrift") {
		return
	}

	updated, err := a.users.UpdateSignature(user.ID, input.Signature)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Unterschrift konnte nicht gespeichert werden")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated})
}
