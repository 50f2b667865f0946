//go:build windows

package term

import "fmt"

var procGetACP = kernel32.NewProc("GetACP")

// preferredEncoding returns the ANSI code page of the system.
func preferredEncoding(func(string) string) string {
	if err := procGetACP.Find(); err != nil {
		return "UTF-8"
	}
	acp, _, _ := procGetACP.Call()
	if acp == 0 || acp == 65001 {
		return "UTF-8"
	}
	return fmt.Sprintf("cp%d", acp)
}
