//go:build !race

package referrals

func passwordHashCost() int {
	return 14
}
