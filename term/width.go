package term

import (
	"os"
	"strconv"
)

func fallbackColumns() int {
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if n, err := strconv.Atoi(cols); err == nil && n > 0 {
			return n
		}
	}
	return 80 // default
}
