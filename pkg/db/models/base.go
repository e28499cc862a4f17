package models

import "github.com/google/uuid"

// ensureID assigns a random id when the row has none yet. Ids are generated in
// the application so sqlite and postgres behave the same.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&User{},
		&Store{},
		&Product{},
		&CartItem{},
		&Order{},
		&Follow{},
		&Conversation{},
		&Message{},
	}
}
