// meta/meta.go
package meta

import "time"

// GO_ROUTINES defines the number of goroutines scoring root actions.
const GO_ROUTINES = 1

// BOARD_SIZE defines the default board size.
const BOARD_SIZE = 5

// SEARCH_DEPTH defines the default minimax depth in plies.
const SEARCH_DEPTH = 3

// TIME_BUDGET defines the default time allowed for one search.
const TIME_BUDGET = 20 * time.Second

// MAX_TURNS defines the number of plies after which a game is adjudicated.
const MAX_TURNS = 300

// SERVER_ADDR defines the default listen address of the game server.
const SERVER_ADDR = ":8080"
