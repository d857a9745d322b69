package controllers

import (
	"net/http"

	"inmoscan/internal/db"
	"inmoscan/internal/ingest"
	"inmoscan/internal/logger"
	"inmoscan/internal/models"
	"inmoscan/internal/pkg/spreadsheet"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type AuctionController struct {
	Store    db.AuctionStore
	Pipeline *ingest.Pipeline

	// MaxUploadBytes caps the request body of Insert; zero disables the cap.
	MaxUploadBytes int64
}

type uploadResponse struct {
	Message string `json:"message"`
	*ingest.Summary
	Failures []ingest.RowOutcome `json:"failures"`
}

// GetData returns every stored auction.
func (ac *AuctionController) GetData(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	auctions, err := ac.Store.All(ctx)
	if err != nil {
		log.Error().Stack().Err(err).Msg("failed to fetch subastas")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if auctions == nil {
		auctions = []models.Auction{}
	}

	log.Info().Int("records", len(auctions)).Msg("fetched subastas")
	c.JSON(http.StatusOK, auctions)
}

// Insert replaces the dataset with the rows of the uploaded spreadsheet.
func (ac *AuctionController) Insert(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	if ac.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ac.MaxUploadBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn().Int64("limit", tooLarge.Limit).Msg("upload rejected: too large")
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		// browsers send an empty file input as a plain form value
		if _, ok := c.GetPostForm("file"); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if fh.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}

	log.Info().Str("file", fh.Filename).Int64("size", fh.Size).Msg("processing upload")

	f, err := fh.Open()
	if err != nil {
		log.Error().Err(err).Str("file", fh.Filename).Msg("failed to open upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	summary, err := ac.Pipeline.IngestFile(ctx, fh.Filename, f)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrUnsupportedFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error().Stack().Err(err).Str("file", fh.Filename).Msg("failed to read spreadsheet")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, uploadResponse{
		Message:  "File processed successfully",
		Summary:  summary,
		Failures: summary.Failures(),
	})
}
