package content_test

import (
	"context"
	"testing"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/content"
	inmemstore "github.com/trezcool/shule/storage/docstore/inmem"
	testutil "github.com/trezcool/shule/tests"
)

func TestServiceAnnouncements(t *testing.T) {
	ctx := context.Background()
	store := inmemstore.Open()
	svc := content.NewService(store, core.NopLogger{})

	testutil.CreateAnnouncement(t, store, "a1", "2024-06-01", "old news")
	testutil.CreateAnnouncement(t, store, "a2", "2024-06-23", "live session on graphic design")
	testutil.CreateAnnouncement(t, store, "a3", "2024-06-10", "portal maintenance")

	anns, err := svc.Announcements(ctx)
	if err != nil {
		t.Fatalf("Announcements() failed: %v", err)
	}
	if len(anns) != 3 {
		t.Fatalf("len = %d, want 3", len(anns))
	}
	// newest first
	for i, want := range []string{"a2", "a3", "a1"} {
		if anns[i].ID != want {
			t.Errorf("anns[%d].ID = %s, want %s", i, anns[i].ID, want)
		}
	}
}

func TestServiceMaterials(t *testing.T) {
	ctx := context.Background()
	store := inmemstore.Open()
	svc := content.NewService(store, core.NopLogger{})

	testutil.CreateMaterial(t, store, "m1", "Web Development", "Flexbox deck", "https://materials.test/flexbox")
	testutil.CreateMaterial(t, store, "m2", "Graphic Design", "Color theory", "https://materials.test/color")

	mats, err := svc.Materials(ctx, []string{"Web Development", "Video Editing"})
	if err != nil {
		t.Fatalf("Materials() failed: %v", err)
	}
	if len(mats) != 1 || mats[0].ID != "m1" {
		t.Errorf("mats = %+v, want only m1", mats)
	}

	if mats, err = svc.Materials(ctx, nil); err != nil || len(mats) != 0 {
		t.Errorf("Materials(no courses) = %+v, %v", mats, err)
	}
}
