package core

import (
	"fmt"
	"math"
)

// Complex is an immutable complex number. Every operation returns a new value.
type Complex struct {
	re float64
	im float64
}

func NewComplex(re, im float64) Complex {
	return Complex{re: re, im: im}
}

func (c Complex) Real() float64 { return c.re }

func (c Complex) Imag() float64 { return c.im }

func (c Complex) Add(other Complex) Complex {
	return Complex{c.re + other.re, c.im + other.im}
}

func (c Complex) Sub(other Complex) Complex {
	return Complex{c.re - other.re, c.im - other.im}
}

// Mul is the standard product (ac-bd, ad+bc).
func (c Complex) Mul(other Complex) Complex {
	return Complex{
		c.re*other.re - c.im*other.im,
		c.re*other.im + c.im*other.re,
	}
}

func (c Complex) Conjugate() Complex {
	return Complex{c.re, -c.im}
}

// Scale multiplies both components by the real factor k.
func (c Complex) Scale(k float64) Complex {
	return Complex{c.re * k, c.im * k}
}

func (c Complex) Magnitude() float64 {
	return math.Hypot(c.re, c.im)
}

func (c Complex) String() string {
	if c.im < 0 {
		return fmt.Sprintf("%g - %gi", c.re, -c.im)
	}
	return fmt.Sprintf("%g + %gi", c.re, c.im)
}
