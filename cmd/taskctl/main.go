package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v2"
)

import _ "github.com/joho/godotenv/autoload"

const (
	flagAPI         = "api"
	flagClear       = "clear"
	flagTitle       = "title"
	flagDescription = "description"
	flagAssignedTo  = "assigned-to"
	flagPriority    = "priority"
	flagDue         = "due"
	flagClient      = "client"
	flagProject     = "project"
	flagCreatedBy   = "created-by"
	flagStatus      = "status"
	flagNotes       = "notes"
	flagAttachment  = "attachment"
)

var version = "dev"

func newCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "dashboard",
			Usage:  "Open the interactive task dashboard",
			Action: runDashboard,
		},
		{
			Name:      "list",
			Usage:     "List the tasks in a status, newest first",
			ArgsUsage: "<Unassigned|Assigned|In Progress|Closed>",
			Action:    runList,
		},
		{
			Name:      "show",
			Usage:     "Show one task",
			ArgsUsage: "<id>",
			Action:    runShow,
		},
		{
			Name:      "advance",
			Usage:     "Move a task to its next status",
			ArgsUsage: "<id>",
			Action:    runAdvance,
		},
		{
			Name:  "create",
			Usage: "Create a task",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: flagTitle, Usage: "The task title."},
				&cli.StringFlag{Name: flagDescription, Usage: "The task description."},
				&cli.StringFlag{Name: flagAssignedTo, Usage: "The assignee email."},
				&cli.StringFlag{Name: flagPriority, Usage: "Low, Medium, High or Critical.", Value: "Medium"},
				&cli.StringFlag{Name: flagDue, Usage: "The due date as YYYY-MM-DD."},
				&cli.StringFlag{Name: flagClient, Usage: "The client name."},
				&cli.StringFlag{Name: flagProject, Usage: "The project name."},
				&cli.StringFlag{Name: flagCreatedBy, Usage: "Who created the task.", EnvVars: []string{"USER"}},
				&cli.StringFlag{Name: flagStatus, Usage: "The initial status.", Value: "Unassigned"},
				&cli.StringFlag{Name: flagNotes, Usage: "Free form notes."},
				&cli.StringSliceFlag{Name: flagAttachment, Usage: "An attachment reference, repeatable."},
			},
			Action: runCreate,
		},
		{
			Name:   "sample-data",
			Usage:  "Replace every task with the sample set",
			Action: runSampleData,
		},
		{
			Name:  "emails",
			Usage: "List the simulated emails sent so far",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: flagClear, Usage: "Clear the email log instead."},
			},
			Action: runEmails,
		},
		{
			Name:   "health",
			Usage:  "Check the API health",
			Action: runHealth,
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "taskctl",
		Usage:   "Task manager command line client",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagAPI,
				Usage:   "The base URL of the task API, including any API prefix.",
				Value:   "http://localhost:5000",
				EnvVars: []string{"TASKFLOW_API"},
			},
		},
		Commands: newCommands(),
	}
}

func main() {
	app := newApp()

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
