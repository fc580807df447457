/*
Copyright 2025 Partslane Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/partslane/fulfillment"
	"github.com/partslane/fulfillment/config"
	"github.com/partslane/fulfillment/database"
	"github.com/partslane/fulfillment/internal/notification"
)

// CLI encapsulates the root Cobra command.
type CLI struct {
	cmd *cobra.Command
}

// appInstance holds the service instance and its configuration, shared
// between subcommands.
type appInstance struct {
	service *fulfillment.Fulfillment
	cnf     *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the
// error before exiting.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads configuration and initializes the service before any
// subcommand runs.
func preRun(app *appInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("fulfillment.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		service, err := setupService(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.service = service
		app.cnf = cnf

		return nil
	}
}

func setupService(cfg *config.Configuration) (*fulfillment.Fulfillment, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	service, err := fulfillment.NewFulfillment(db)
	if err != nil {
		return nil, fmt.Errorf("error creating fulfillment service: %v", err)
	}
	return service, nil
}

// NewCLI creates the command-line interface for the fulfillment server.
func NewCLI() *CLI {
	var configFile string
	app := &appInstance{}

	var rootCmd = &cobra.Command{
		Use:   "fulfillment",
		Short: "Order and delivery fulfillment tracker",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./fulfillment.json", "Configuration file for the fulfillment server")
	rootCmd.PersistentPreRunE = preRun(app)

	rootCmd.AddCommand(serverCommands(app))

	return &CLI{cmd: rootCmd}
}

func (c CLI) executeCLI() {
	if err := c.cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()
	cli := NewCLI()
	cli.executeCLI()
}
