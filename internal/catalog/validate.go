package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"recgames/backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// GameInput describes a game to create or update.
type GameInput struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Genre       models.Genre    `json:"genre" validate:"required,genre"`
	Developer   string          `json:"developer" validate:"required,max=200"`
	ReleaseYear int             `json:"release_year" validate:"min=1970,max=2030"`
	Price       int             `json:"price" validate:"min=0"`
	Platform    models.Platform `json:"platform" validate:"required,platform"`
	Rating      int             `json:"rating" validate:"min=0,max=10"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url,max=512"`
	ExternalURL string          `json:"external_url" validate:"omitempty,url,max=512"`
	TagIDs      []uint          `json:"tag_ids"`
}

type TagInput struct {
	Name string `json:"name" validate:"required,max=50"`
	Slug string `json:"slug" validate:"omitempty,max=50"`
}

// CollectionInput describes a collection to create or update. A nil IsPublic
// means public.
type CollectionInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

type FeedbackInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return models.Genre(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		return models.Platform(fl.Field().String()).Valid()
	})
	return v
}

// check validates input and reports failures as ErrInvalidInput.
func (s *Service) check(input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

// Slugify lowercases s and joins its letter and digit runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '_' || r == '-' || unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			pendingDash = true
		}
	}
	return b.String()
}
