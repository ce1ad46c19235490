// Command pdfbulkd serves the upload form and the merge API.
//
// Configuration is read from <app-root>/config, see conf.Core.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/daddykotex/pdf-edit-bulk/conf"
)

func main() {
	appRoot := flag.String("app-root", ".", "directory holding config/ and templates/")
	flag.Parse()

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	if err := serve(*appRoot, rootCtx, rootCancel); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Println("[INFO] bye")
}

func serve(appRoot string, rootCtx context.Context, rootCancel context.CancelFunc) error {
	app := &conf.Core{}
	if err := app.BaseInit(appRoot, rootCtx, rootCancel); err != nil {
		return err
	}
	defer app.ResourceCleanUp()

	if err := app.PrepareKVDatabase(); err != nil {
		return err
	}
	if err := app.PrepareSQLDatabases(); err != nil {
		return err
	}
	if err := app.PrepareJournal(); err != nil {
		return err
	}
	if err := app.PrepareHTMLTemplateStore(); err != nil {
		return err
	}
	app.PrepareJournalRetention()
	app.PrepareThrottle()
	app.PrepareWebService(app.Listen, app.NewRouter())
	if app.AdminSocket != "" {
		app.PrepareUDSService(app.AdminSocket)
	}

	if err := app.StartServices(); err != nil {
		app.StopServices()
		return err
	}
	log.Printf("[INFO] %s started", app.AppName)

	// services stop on their own once rootCtx is cancelled by a signal
	err := app.WaitServicesDone()
	if err != nil {
		rootCancel()
	}
	return err
}
