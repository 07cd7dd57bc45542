package ast

import "fmt"

// Rational is a non-negative-by-convention exact fraction with a small
// integer numerator and denominator. Durations and beat positions in
// braille music never need more range than int64 gives us; tuplet
// denominators stay small (powers of two times 3, 5 or 7).
type Rational struct {
	Num, Den int64
}

// Zero is the additive identity.
var Zero = Rational{0, 1}

// One is the multiplicative identity.
var One = Rational{1, 1}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// NewRational builds a reduced fraction. A zero denominator panics; callers
// in this module never construct one, since every denominator originates
// from a note value (a power of two) or a tuplet ratio.
func NewRational(num, den int64) Rational {
	if den == 0 {
		panic("ast: rational with zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(num, den)
	return Rational{num / g, den / g}
}

func (r Rational) Add(o Rational) Rational {
	return NewRational(r.Num*o.Den+o.Num*r.Den, r.Den*o.Den)
}

func (r Rational) Sub(o Rational) Rational {
	return NewRational(r.Num*o.Den-o.Num*r.Den, r.Den*o.Den)
}

func (r Rational) Mul(o Rational) Rational {
	return NewRational(r.Num*o.Num, r.Den*o.Den)
}

func (r Rational) Div(o Rational) Rational {
	return NewRational(r.Num*o.Den, r.Den*o.Num)
}

func (r Rational) MulInt(n int64) Rational {
	return NewRational(r.Num*n, r.Den)
}

func (r Rational) DivInt(n int64) Rational {
	return NewRational(r.Num, r.Den*n)
}

// Cmp returns -1, 0 or 1 as r is less than, equal to, or greater than o.
func (r Rational) Cmp(o Rational) int {
	lhs := r.Num * o.Den
	rhs := o.Num * r.Den
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

func (r Rational) Equal(o Rational) bool   { return r.Cmp(o) == 0 }
func (r Rational) Less(o Rational) bool    { return r.Cmp(o) < 0 }
func (r Rational) LessEq(o Rational) bool  { return r.Cmp(o) <= 0 }
func (r Rational) Greater(o Rational) bool { return r.Cmp(o) > 0 }
func (r Rational) IsZero() bool            { return r.Num == 0 }
func (r Rational) Sign() int {
	switch {
	case r.Num < 0:
		return -1
	case r.Num > 0:
		return 1
	default:
		return 0
	}
}

func (r Rational) Float64() float64 {
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) String() string {
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// IsDyadic reports whether the denominator is a pure power of two, i.e. the
// position does not carry a leftover tuplet factor (used by the interpreter
// to validate positions after a tuplet ends).
func (r Rational) IsDyadic() bool {
	d := r.Den
	for d%2 == 0 {
		d /= 2
	}
	return d == 1
}

// NoRemainder reports whether r is an integer multiple of unit, i.e.
// r/unit has no fractional part. Used for on-beat checks.
func NoRemainder(r, unit Rational) bool {
	if unit.IsZero() {
		return r.IsZero()
	}
	q := r.Div(unit)
	return q.Den == 1
}

// Dotted returns base * (2 - 2^-dots), the full duration of a dotted value.
func Dotted(base Rational, dots int) Rational {
	if dots == 0 {
		return base
	}
	pow := int64(1)
	for i := 0; i < dots; i++ {
		pow *= 2
	}
	return base.MulInt(2).Sub(base.DivInt(pow))
}

// Min returns the smaller of two rationals.
func Min(a, b Rational) Rational {
	if a.Less(b) {
		return a
	}
	return b
}
