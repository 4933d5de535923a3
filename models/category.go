package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Category, sunucu dizinindeki bir kategoriyi temsil eder (gaming, music vb.).
// Her sunucu en fazla bir kategoriye bağlıdır; name unique'tir.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCategoryRequest, kategori oluşturma isteği.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate, CreateCategoryRequest kontrolü.
func (r *CreateCategoryRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	nameLen := utf8.RuneCountInString(r.Name)
	if nameLen < 1 || nameLen > 50 {
		return fmt.Errorf("category name must be between 1 and 50 characters")
	}
	if utf8.RuneCountInString(r.Description) > 250 {
		return fmt.Errorf("category description must be at most 250 characters")
	}
	return nil
}
