package catalog

import "testing"

func TestApplyDerivedTagsPlatformImpliesVideoGame(t *testing.T) {
	entry := validEntry()
	entry.AddTag(CategoryPlatform, "Switch")
	entry.ApplyDerivedTags()
	if !entry.HasTagNamed(CategoryFamily, "Video Game") {
		t.Fatal("platform tag should imply Video Game family")
	}
}

func TestApplyDerivedTagsAudioExtension(t *testing.T) {
	entry := validEntry()
	entry.MediaFile = "song.mp3"
	entry.ApplyDerivedTags()
	if !entry.HasTagNamed(CategoryMisc, "Audio Only") {
		t.Fatal("mp3 media should imply Audio Only misc tag")
	}
}

func TestApplyDerivedTagsDecadeGroup(t *testing.T) {
	cases := map[int]string{
		1955: "50s",
		1984: "80s",
		1999: "90s",
		2005: "2000s",
		2021: "2020s",
	}
	for year, group := range cases {
		entry := validEntry()
		entry.Year = year
		entry.ApplyDerivedTags()
		if !entry.HasTagNamed(CategoryGroup, group) {
			t.Errorf("year %d should imply group %s", year, group)
		}
	}
	entry := validEntry()
	entry.Year = 1905
	entry.ApplyDerivedTags()
	if len(entry.Tags[CategoryGroup]) != 0 {
		t.Fatalf("year outside known decades minted a group: %v", entry.Tags[CategoryGroup])
	}
}

func TestApplyDerivedTagsIdempotent(t *testing.T) {
	entry := validEntry()
	entry.MediaFile = "song.ogg"
	entry.AddTag(CategoryPlatform, "PC")
	entry.ApplyDerivedTags()
	entry.ApplyDerivedTags()
	if len(entry.Tags[CategoryFamily]) != 1 {
		t.Fatalf("families = %v", entry.Tags[CategoryFamily])
	}
	if len(entry.Tags[CategoryMisc]) != 1 {
		t.Fatalf("misc = %v", entry.Tags[CategoryMisc])
	}
}
