package auth

import (
	"fmt"
	"strings"
)

// ShowCookieExtractionGuide prints how to copy the Fantia session values
// out of a logged-in browser.
func ShowCookieExtractionGuide() {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("FANTIA CREDENTIAL EXTRACTION GUIDE")
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println()
	fmt.Println("The archiver reuses your browser's logged-in Fantia session.")
	fmt.Println()
	fmt.Println("1. Log into https://fantia.jp in your browser.")
	fmt.Println("2. Open Developer Tools (F12) and select the Network tab.")
	fmt.Println("3. Reload any fantia.jp page and click the first request.")
	fmt.Println("4. From the request headers, copy the full 'Cookie' value.")
	fmt.Println("5. From the same headers (or a page's <meta name=\"csrf-token\">),")
	fmt.Println("   copy the 'X-CSRF-Token' value.")
	fmt.Println("6. Optionally copy your browser's 'User-Agent' so the session")
	fmt.Println("   looks identical to the platform.")
	fmt.Println()
	fmt.Println("Store them with: fanarchive auth login")
	fmt.Println()
	fmt.Println("Cookies expire: if runs start failing with auth errors, repeat")
	fmt.Println("these steps with a fresh browser session.")
	fmt.Println(strings.Repeat("=", 72))
}
