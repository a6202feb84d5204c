package store

var dropStatements = []string{
	`DROP TABLE IF EXISTS card_keywords`,
	`DROP TABLE IF EXISTS card_arenas`,
	`DROP TABLE IF EXISTS card_traits`,
	`DROP TABLE IF EXISTS card_aspects`,
	`DROP TABLE IF EXISTS cards`,
	`DROP TABLE IF EXISTS sets`,
}

var createStatements = []string{
	`CREATE TABLE sets (
		"id"       TEXT PRIMARY KEY,
		"number"   INTEGER NOT NULL,
		"rotation" TEXT,
		"name"     TEXT NOT NULL
	)`,
	`CREATE TABLE cards (
		"id"            TEXT PRIMARY KEY,
		"set_id"        TEXT NOT NULL,
		"number"        INTEGER NOT NULL,
		"name"          TEXT NOT NULL,
		"subtitle"      TEXT,
		"unique"        INTEGER NOT NULL,
		"rarity"        TEXT NOT NULL,
		"variant_type"  TEXT NOT NULL,
		"card_type"     TEXT NOT NULL,
		"cost"          TEXT,
		"power"         TEXT,
		"hp"            TEXT,
		"front_text"    TEXT,
		"double_sided"  INTEGER NOT NULL,
		"epic_action"   TEXT,
		"back_text"     TEXT,
		"artist"        TEXT NOT NULL,
		"artist_search" TEXT NOT NULL,
		FOREIGN KEY ("set_id") REFERENCES sets("id")
	)`,
	`CREATE TABLE card_aspects (
		"id"         INTEGER PRIMARY KEY AUTOINCREMENT,
		"card_id"    TEXT NOT NULL,
		"aspect"     TEXT,
		"color"      TEXT,
		"sort_order" INTEGER NOT NULL,
		"double"     INTEGER NOT NULL,
		FOREIGN KEY ("card_id") REFERENCES cards("id")
	)`,
	`CREATE TABLE card_traits (
		"id"      INTEGER PRIMARY KEY AUTOINCREMENT,
		"card_id" TEXT NOT NULL,
		"trait"   TEXT,
		FOREIGN KEY ("card_id") REFERENCES cards("id")
	)`,
	`CREATE TABLE card_arenas (
		"id"      INTEGER PRIMARY KEY AUTOINCREMENT,
		"card_id" TEXT NOT NULL,
		"arena"   TEXT,
		FOREIGN KEY ("card_id") REFERENCES cards("id")
	)`,
	`CREATE TABLE card_keywords (
		"id"      INTEGER PRIMARY KEY AUTOINCREMENT,
		"card_id" TEXT NOT NULL,
		"keyword" TEXT,
		FOREIGN KEY ("card_id") REFERENCES cards("id")
	)`,
}

var indexStatements = []string{
	`CREATE INDEX set_id_index ON sets (id)`,
	`CREATE INDEX set_search_index ON cards (number, name)`,
	`CREATE INDEX card_id_index ON cards (id)`,
	`CREATE INDEX card_search_index ON cards (set_id, variant_type, card_type, rarity, artist)`,
	`CREATE INDEX aspect_card_id_index ON card_aspects (card_id)`,
	`CREATE INDEX aspect_search_index ON card_aspects (aspect, sort_order)`,
	`CREATE INDEX trait_card_id_index ON card_traits (card_id)`,
	`CREATE INDEX trait_search_index ON card_traits (trait)`,
	`CREATE INDEX arena_card_id_index ON card_arenas (card_id)`,
	`CREATE INDEX arena_search_index ON card_arenas (arena)`,
	`CREATE INDEX keyword_card_id_index ON card_keywords (card_id)`,
	`CREATE INDEX keyword_search_index ON card_keywords (keyword)`,
}
