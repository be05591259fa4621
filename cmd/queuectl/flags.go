package main

import "oss.nandlabs.io/golly/cli"

// flag builds a *cli.Flag that accepts both "--name value" and
// "--name=value" forms. golly/cli's alias lookup only recognizes a
// flag's own primary name for the space-separated form when it is also
// registered as an alias of itself; without this, "--name value" is
// silently parsed as an empty --name plus a stray positional argument.
func flag(name, usage, def string) *cli.Flag {
	return &cli.Flag{Name: name, Aliases: []string{name}, Usage: usage, Default: def}
}
