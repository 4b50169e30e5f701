package session

import "errors"

// ErrInsufficientCoins is returned when a debit would make the balance negative.
var ErrInsufficientCoins = errors.New("session: insufficient coins")

// AddCoins credits n coins. Non-positive amounts are ignored.
func AddCoins(s State, n int) (State, []Effect) {
	if n <= 0 {
		return s, []Effect{refresh()}
	}
	s.Coins += n
	return s, []Effect{{Kind: EffectSaveWallet, Coins: s.Coins}, refresh()}
}

// ConsumeCoins debits n coins. Callers check affordability first; the ledger
// still refuses to go negative and leaves the state untouched in that case.
func ConsumeCoins(s State, n int) (State, []Effect, error) {
	if n < 0 {
		return s, nil, errors.New("session: negative debit")
	}
	if n > s.Coins {
		return s, nil, ErrInsufficientCoins
	}
	s.Coins -= n
	return s, []Effect{{Kind: EffectSaveWallet, Coins: s.Coins}, refresh()}, nil
}
