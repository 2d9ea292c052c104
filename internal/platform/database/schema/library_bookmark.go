package schema

// LibraryBookmarkTable represents the 'library.bookmark' table
type LibraryBookmarkTable struct {
	Table             string
	Seq               string
	CollectionSlug    string
	SeriesID          string
	SeriesURL         string
	LastReadChapterID string
	LastReadAt        string
	LinkTo            string
	CreatedAt         string
	UpdatedAt         string
}

// LibraryBookmark is the schema definition for library.bookmark
var LibraryBookmark = LibraryBookmarkTable{
	Table:             "library.bookmark",
	Seq:               "seq",
	CollectionSlug:    "collectionslug",
	SeriesID:          "seriesid",
	SeriesURL:         "seriesurl",
	LastReadChapterID: "lastreadchapterid",
	LastReadAt:        "lastreadat",
	LinkTo:            "linkto",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
}

// Columns lists the columns hydrated into a bookmark, in scan order.
func (t LibraryBookmarkTable) Columns() []string {
	return []string{
		t.SeriesID, t.SeriesURL, t.LastReadChapterID, t.LastReadAt, t.LinkTo, t.CreatedAt,
	}
}
