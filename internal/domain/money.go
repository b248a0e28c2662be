package domain

import "fmt"

// Money is an amount in the currency's smallest unit (cents). All arithmetic
// in the core is integer arithmetic; percentages are applied with decimal
// math at the settlement boundary only.
type Money int64

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
