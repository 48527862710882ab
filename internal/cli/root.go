package cli

// Root returns the busctl command tree bound to a.
func Root(a *App) *Command {
	return &Command{
		Name:    "busctl",
		Summary: "Search buses, pick seats, book trips and manage your wallet.",
		Out:     a.Out,
		Subcommands: []*Command{
			a.loginCmd(),
			a.registerCmd(),
			a.logoutCmd(),
			a.whoamiCmd(),
			a.citiesCmd(),
			a.searchCmd(),
			a.seatsCmd(),
			a.bookCmd(),
			a.bookingsCmd(),
			a.cancelCmd(),
			a.walletCmd(),
			a.topupCmd(),
			a.adminCmd(),
			a.eventsCmd(),
		},
	}
}
