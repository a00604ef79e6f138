package contacts

// Contact is a persisted person record. Name and email are nullable in
// storage; a nil pointer means SQL NULL, which is distinct from an empty
// string.
type Contact struct {
	ID        int64   `db:"id" json:"id"`
	FirstName *string `db:"first_name" json:"first_name"`
	LastName  *string `db:"last_name" json:"last_name"`
	Email     *string `db:"email" json:"email"`
}

type SearchResponse struct {
	Results []Contact `json:"results"`
}
