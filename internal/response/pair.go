package response

// Kind distinguishes self from cross responses.
type Kind uint8

const (
	Self Kind = iota
	Cross
)

func (k Kind) String() string {
	if k == Cross {
		return "cross"
	}
	return "self"
}

// Pair names the stock whose price responds and the stock whose trades drive it.
type Pair struct {
	Source  string // Price series, stock i
	Driving string // Sign series, stock j
}

// SelfPair is a stock responding to its own trades.
func SelfPair(ticker string) Pair {
	return Pair{Source: ticker, Driving: ticker}
}

// Kind returns Self when both tickers match.
func (p Pair) Kind() Kind {
	if p.Source == p.Driving {
		return Self
	}
	return Cross
}

func (p Pair) String() string {
	if p.Kind() == Self {
		return p.Source
	}
	return p.Source + "/" + p.Driving
}
