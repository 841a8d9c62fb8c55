package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_redis_club_tool/app"
	"Gin_postgres_redis_club_tool/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArtistController struct{ *Srv }

func GetArtistController(s *Srv) *ArtistController { return &ArtistController{Srv: s} }

// GET /api/artists
func (ac *ArtistController) List(c *gin.Context) {
	artists, err := ac.Repo.ListArtists(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"artists": artists})
}

// POST /api/artists
func (ac *ArtistController) Create(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in struct {
		Name        string `json:"name" binding:"required"`
		Instruments string `json:"instruments"`
		Genres      string `json:"genres"`
		Bio         string `json:"bio"`
		Links       string `json:"links"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	a := &models.Artist{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Instruments: in.Instruments,
		Genres:      in.Genres,
		Bio:         in.Bio,
		Links:       in.Links,
		OwnerEmail:  u.Email,
	}
	if err := ac.Repo.CreateArtist(c.Request.Context(), a); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, a)
}

// PUT /api/artists/:id — owner or admin only
func (ac *ArtistController) Update(c *gin.Context) {
	a, ok := ac.ownedArtist(c)
	if !ok {
		return
	}
	var in struct {
		Name        *string `json:"name"`
		Instruments *string `json:"instruments"`
		Genres      *string `json:"genres"`
		Bio         *string `json:"bio"`
		Links       *string `json:"links"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Instruments != nil {
		updates["instruments"] = *in.Instruments
	}
	if in.Genres != nil {
		updates["genres"] = *in.Genres
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if in.Links != nil {
		updates["links"] = *in.Links
	}
	if err := ac.Repo.UpdateArtist(c.Request.Context(), a.ID, updates); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	out, err := ac.Repo.FindArtistByID(c.Request.Context(), a.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/artists/:id — owner or admin only
func (ac *ArtistController) Delete(c *gin.Context) {
	a, ok := ac.ownedArtist(c)
	if !ok {
		return
	}
	if err := ac.Repo.DeleteArtist(c.Request.Context(), a.ID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// ownedArtist loads the entry and enforces the ownership check, writing the
// response itself on failure.
func (ac *ArtistController) ownedArtist(c *gin.Context) (*models.Artist, bool) {
	u, ok := app.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return nil, false
	}
	a, err := ac.Repo.FindArtistByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "artist not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return nil, false
	}
	if a.OwnerEmail != u.Email && !u.IsAdmin {
		c.JSON(http.StatusForbidden, app.H{"error": "only the owner can change this entry"})
		return nil, false
	}
	return a, true
}
