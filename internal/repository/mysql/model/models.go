package model

// All lists every table in migration order.
func All() []any {
	return []any{
		&Department{},
		&User{},
		&Manager{},
		&Post{},
		&Repost{},
		&Comment{},
		&Vote{},
		&Commit{},
		&Tag{},
		&PostTag{},
		&Attachment{},
	}
}
