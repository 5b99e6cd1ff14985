// Command lynva-tui is the terminal dashboard for Lynva bookings, services,
// FAQs and call logs.
package main

import "github.com/lynva/lynva-tui/internal/cli"

func main() {
	cli.Execute()
}
