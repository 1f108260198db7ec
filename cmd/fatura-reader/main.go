package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/fatura-reader/internal/invoice"
	"github.com/zombor/fatura-reader/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// A missing .env file is fine
	_ = godotenv.Load()

	fs := ff.NewFlagSet("fatura-reader")
	var (
		xlsxPath    = fs.StringLong("xlsx", "", "Also write the extracted invoices to this XLSX file")
		serve       = fs.BoolLong("serve", "Run the HTTP extraction server instead of reading files")
		port        = fs.IntLong("port", 8080, "HTTP server port")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		verbose     = fs.BoolLong("verbose", "Log debug messages")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("FATURA_READER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	scanner := scanning.NewFitz()
	defer scanner.Close()

	service := invoice.NewService(scanner, os.Stdout)

	if *serve {
		runServer(service, *port, invoice.BasicAuth{Username: *authUser, Password: *authPass})
		return
	}

	paths := fs.GetArgs()
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "usage: fatura-reader [FLAGS] <invoice.pdf>...\n\n%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: at least one PDF file is required\n")
		os.Exit(1)
	}

	results := service.ProcessFiles(paths)

	if *xlsxPath != "" {
		data, err := invoice.ExportXLSX(results)
		if err != nil {
			slog.Error("Failed to export invoices", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxPath, data, 0644); err != nil {
			slog.Error("Failed to write XLSX file", "path", *xlsxPath, "error", err)
			os.Exit(1)
		}
		slog.Info("Invoices exported", "path", *xlsxPath)
	}
}

func runServer(service *invoice.Service, port int, basicAuth invoice.BasicAuth) {
	server := invoice.NewServer(service, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if basicAuth.Username != "" || basicAuth.Password != "" {
		slog.Info("Basic auth enabled", "user", basicAuth.Username)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
