package hypergeom

import (
	"fmt"
	"math/big"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/ramonehamilton/manabase/internal/deck"
)

// VectorProb pairs a count vector with its exact draw probability.
type VectorProb struct {
	Vector CountVector
	P      *big.Rat
}

// Float64 returns the probability at the floating-point reporting boundary.
func (vp VectorProb) Float64() float64 {
	f, _ := vp.P.Float64()
	return f
}

// Probability returns the exact multivariate hypergeometric probability of
// drawing exactly the given vector when n cards are drawn from d:
//
//	P(vector) = prod_i C(N_i, k_i) / C(N, n)
//
// It validates defensively even though vectors produced by Enumerate always
// pass: a vector whose components do not sum to n, exceed their category
// counts, or have the wrong shape is a DomainError. All arithmetic is exact.
func Probability(d *deck.Deck, vector CountVector, n int) (*big.Rat, error) {
	if err := checkDrawSize(d, n); err != nil {
		return nil, err
	}
	m := d.NumCategories()
	if len(vector) != m {
		return nil, &deck.DomainError{Msg: fmt.Sprintf("vector has %d components, deck has %d categories", len(vector), m)}
	}

	sum := 0
	num := big.NewInt(1)
	for i, k := range vector {
		if k < 0 {
			return nil, &deck.DomainError{Msg: fmt.Sprintf("negative component %d at category %s", k, d.CategoryAt(i))}
		}
		if k > d.CountAt(i) {
			return nil, &deck.DomainError{Msg: fmt.Sprintf("component %d exceeds count %d of category %s", k, d.CountAt(i), d.CategoryAt(i))}
		}
		sum += k
		num.Mul(num, new(big.Int).Binomial(int64(d.CountAt(i)), int64(k)))
	}
	if sum != n {
		return nil, &deck.DomainError{Msg: fmt.Sprintf("vector sums to %d, draw size is %d", sum, n)}
	}

	den := new(big.Int).Binomial(int64(d.Size()), int64(n))
	return new(big.Rat).SetFrac(num, den), nil
}

// Distribution enumerates the full support for drawing n cards from d and
// assigns each vector its exact probability. The probabilities sum to
// exactly 1. maxSupport bounds the enumeration as in EnumerateBounded.
func Distribution(d *deck.Deck, n, maxSupport int) ([]VectorProb, error) {
	vectors, err := EnumerateBounded(d, n, maxSupport)
	if err != nil {
		return nil, err
	}
	out := make([]VectorProb, len(vectors))
	for i, v := range vectors {
		p, err := Probability(d, v, n)
		if err != nil {
			return nil, err
		}
		out[i] = VectorProb{Vector: v, P: p}
	}
	return out, nil
}

// ApproxProbability computes the same mass as Probability in float64 via
// gonum's generalized binomials. It exists for the reporting boundary and
// for feasibility estimation; exact results always come from Probability.
func ApproxProbability(d *deck.Deck, vector CountVector, n int) (float64, error) {
	if _, err := Probability(d, vector, n); err != nil {
		return 0, err
	}
	p := 1.0
	for i, k := range vector {
		p *= combin.GeneralizedBinomial(float64(d.CountAt(i)), float64(k))
	}
	return p / combin.GeneralizedBinomial(float64(d.Size()), float64(n)), nil
}

// LogSupportEstimate estimates log10 of C(N, n), an upper bound on how much
// work enumerating the draw could take. Callers use it to pick counting
// mode before committing to a full enumeration.
func LogSupportEstimate(d *deck.Deck, n int) float64 {
	if n < 0 || n > d.Size() {
		return 0
	}
	return combin.LogGeneralizedBinomial(float64(d.Size()), float64(n)) / ln10
}

const ln10 = 2.302585092994046
