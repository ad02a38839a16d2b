package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		loginCommand, logoutCommand, whoamiCommand, postCommand, composeCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in with your X account",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the sign-in URL without opening a browser",
			},
		},
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the signed-in account",
		Action: r.Logout,
	}
}

func whoamiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the signed-in account",
		Action: r.Whoami,
	}
}

func postCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "post",
		Usage:     "Publish a post",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the post record as JSON",
			},
		},
		Action: r.Post,
	}
}

func composeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "compose",
		Aliases: []string{"c"},
		Usage:   "Open the retro composer",
		Action:  r.Compose,
	}
}
