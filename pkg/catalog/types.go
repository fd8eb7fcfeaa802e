package catalog

// Member is a committee member record. Members are administered outside the
// engine and are read-only here.
type Member struct {
	ID           int64
	Name         string
	Subcommittee string
	Role         string
}

// Project is a catalog project record, read-only to the engine.
type Project struct {
	ID          int64
	Name        string
	Description string
}

// Topic is a discussion topic record. Topics are the only catalog entity the
// engine may create.
type Topic struct {
	ID          int64
	Name        string
	Description string
}
