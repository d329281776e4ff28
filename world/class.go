package world

import "fmt"

type ServiceClass int

const (
	First ServiceClass = iota
	Business
	PremiumEconomy
	Economy
)

var Classes = [4]ServiceClass{First, Business, PremiumEconomy, Economy}

func (c ServiceClass) String() string {
	switch c {
	case First:
		return "FIRST"
	case Business:
		return "BUSINESS"
	case PremiumEconomy:
		return "PREMIUM_ECONOMY"
	case Economy:
		return "ECONOMY"
	}

	return fmt.Sprintf("ServiceClass(%d)", int(c))
}

// PerClass holds one value per service class.
type PerClass[T any] struct {
	First          T
	Business       T
	PremiumEconomy T
	Economy        T
}

func (p PerClass[T]) Get(c ServiceClass) T {
	switch c {
	case First:
		return p.First
	case Business:
		return p.Business
	case PremiumEconomy:
		return p.PremiumEconomy
	default:
		return p.Economy
	}
}

func (p *PerClass[T]) Set(c ServiceClass, v T) {
	switch c {
	case First:
		p.First = v
	case Business:
		p.Business = v
	case PremiumEconomy:
		p.PremiumEconomy = v
	default:
		p.Economy = v
	}
}

func (p *PerClass[T]) Update(c ServiceClass, f func(v T) T) {
	p.Set(c, f(p.Get(c)))
}

func MapClasses[T any, U any](p PerClass[T], f func(c ServiceClass, v T) U) PerClass[U] {
	var r PerClass[U]
	for _, c := range Classes {
		r.Set(c, f(c, p.Get(c)))
	}

	return r
}

type number interface {
	~int | ~int64 | ~float64
}

func Total[T number](p PerClass[T]) T {
	return p.First + p.Business + p.PremiumEconomy + p.Economy
}
