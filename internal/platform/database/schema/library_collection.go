package schema

// LibraryCollectionTable represents the 'library.collection' table
type LibraryCollectionTable struct {
	Table     string
	Slug      string
	CreatedAt string
}

// LibraryCollection is the schema definition for library.collection
var LibraryCollection = LibraryCollectionTable{
	Table:     "library.collection",
	Slug:      "slug",
	CreatedAt: "createdat",
}

func (t LibraryCollectionTable) Columns() []string {
	return []string{t.Slug, t.CreatedAt}
}
