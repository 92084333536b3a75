// internal/httpserver/token.go
//
// Game tokens. POST /game/new hands the client an HS256 JWT naming the game
// and its leaderboard board; POST /api/score accepts nothing else. The token
// expires SubmitGrace after the game deadline.

package httpserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errBadToken = errors.New("bad token")

type gameClaims struct {
	GameID string
	Board  string
}

// signToken creates the submission token for a game ending at deadline.
func (s *Server) signToken(gameID, board string, deadline time.Time) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"gid":   gameID,
		"board": board,
		"exp":   deadline.Add(s.cfg.Server.SubmitGrace).Unix(),
		"iat":   s.now().Unix(),
	})
	return t.SignedString([]byte(s.cfg.Server.JWTSecret))
}

// parseToken verifies signature, algorithm and expiry.
func (s *Server) parseToken(tok string) (gameClaims, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(s.cfg.Server.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !t.Valid {
		return gameClaims{}, errBadToken
	}
	gid, _ := claims["gid"].(string)
	board, _ := claims["board"].(string)
	if gid == "" || board == "" {
		return gameClaims{}, errBadToken
	}
	return gameClaims{GameID: gid, Board: board}, nil
}
