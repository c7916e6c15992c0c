package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

func TestGalleryCreateRequiresTitleAndImage(t *testing.T) {
	gormDB, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()
	svc := NewGalleryService(gormDB)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    GalleryInput
		field string
	}{
		{"missing title", GalleryInput{ImageURL: "https://cdn.example.org/lab.jpg"}, "title"},
		{"blank title", GalleryInput{Title: "   ", ImageURL: "https://cdn.example.org/lab.jpg"}, "title"},
		{"missing image", GalleryInput{Title: "New lab"}, "image_url"},
		{"blank image", GalleryInput{Title: "New lab", ImageURL: "  "}, "image_url"},
	}
	for _, tc := range cases {
		_, err := svc.Create(ctx, administrator, tc.in)
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != tc.field {
			t.Fatalf("%s: expected %s ValidationError, got %v", tc.name, tc.field, err)
		}
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGalleryCreateDefaultsCategory(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `gallery_images`"),
			result:  scriptedResult{lastInsertID: 12, rowsAffected: 1},
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()
	svc := NewGalleryService(gormDB)

	image, err := svc.Create(context.Background(), administrator, GalleryInput{
		Title:    " New lab ",
		ImageURL: "https://cdn.example.org/lab.jpg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if image.ImageID != 12 || image.Category != "general" || image.Title != "New lab" {
		t.Fatalf("unexpected image: %+v", image)
	}
	if image.UploadedBy != administrator.UserID {
		t.Fatalf("expected uploader %d, got %d", administrator.UserID, image.UploadedBy)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
