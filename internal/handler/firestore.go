package handler

import (
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"portal/internal/model"
)

// The /api/firestore group is a thin generic proxy over Firestore documents,
// kept at its historical prefix for existing clients.

// ListDocuments returns every document in a collection with its id attached.
func (h *Handler) ListDocuments(c *gin.Context) {
	iter := h.fs.Collection(c.Param("collection")).Documents(c.Request.Context())
	defer iter.Stop()

	docs := make([]model.Record, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			h.log.Error().Err(err).Str("collection", c.Param("collection")).Msg("error listing documents")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		doc := snap.Data()
		doc["id"] = snap.Ref.ID
		docs = append(docs, doc)
	}
	c.JSON(http.StatusOK, docs)
}

// GetDocument returns one document by id.
func (h *Handler) GetDocument(c *gin.Context) {
	snap, err := h.fs.Collection(c.Param("collection")).Doc(c.Param("id")).Get(c.Request.Context())
	if status.Code(err) == codes.NotFound {
		c.JSON(http.StatusNotFound, gin.H{"message": "Document not found"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("collection", c.Param("collection")).Msg("error getting document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	doc := snap.Data()
	doc["id"] = snap.Ref.ID
	c.JSON(http.StatusOK, doc)
}

// CreateDocument writes a new document. A non-empty id field in the body
// names the document; otherwise Firestore assigns one.
func (h *Handler) CreateDocument(c *gin.Context) {
	var data model.Record
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := h.fs.Collection(c.Param("collection"))
	ref := collection.NewDoc()
	if id, ok := data["id"].(string); ok && id != "" {
		ref = collection.Doc(id)
		delete(data, "id")
	}

	if _, err := ref.Set(c.Request.Context(), data); err != nil {
		h.log.Error().Err(err).Str("collection", c.Param("collection")).Msg("error creating document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Document created successfully", "id": ref.ID})
}

// SetDocument merges the body into an existing (or new) document.
func (h *Handler) SetDocument(c *gin.Context) {
	var data model.Record
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delete(data, "id")

	ref := h.fs.Collection(c.Param("collection")).Doc(c.Param("id"))
	if _, err := ref.Set(c.Request.Context(), data, firestore.MergeAll); err != nil {
		h.log.Error().Err(err).Str("collection", c.Param("collection")).Msg("error updating document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document updated successfully", "id": ref.ID})
}

// DeleteDocument removes one document.
func (h *Handler) DeleteDocument(c *gin.Context) {
	ref := h.fs.Collection(c.Param("collection")).Doc(c.Param("id"))
	if _, err := ref.Delete(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Str("collection", c.Param("collection")).Msg("error deleting document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}
