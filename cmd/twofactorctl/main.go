package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/admin2fa/pkg/config"
	"github.com/dmitrymomot/admin2fa/pkg/secrets"
	"github.com/dmitrymomot/admin2fa/pkg/twofactor"
)

var (
	app       *cli.App
	gitCommit string
	gitTag    string
)

var (
	envFileFlag = &cli.StringFlag{
		Name:  "env-file",
		Usage: "Optional .env file loaded before reading the environment",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
	accountFlag = &cli.StringFlag{
		Name:     "account",
		Aliases:  []string{"a"},
		Usage:    "Administrator account ID",
		Required: true,
	}
	codeFlag = &cli.StringFlag{
		Name:     "code",
		Aliases:  []string{"c"},
		Usage:    "6-digit code from the authenticator app",
		Required: true,
	}
	labelFlag = &cli.StringFlag{
		Name:  "label",
		Usage: "Account name shown in the authenticator app (defaults to the account ID)",
	}
	qrOutFlag = &cli.StringFlag{
		Name:  "qr-out",
		Usage: "Write the enrollment QR code PNG to this file",
	}
	watchFlag = &cli.BoolFlag{
		Name:  "watch",
		Usage: "Keep purging every TWOFACTOR_CLEANUP_INTERVAL until interrupted",
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Name = "twofactorctl"
	app.Usage = "Manage TOTP two-factor authentication of administrator accounts"
	app.Flags = []cli.Flag{
		envFileFlag,
		debugFlag,
	}
	app.Before = func(ctx *cli.Context) error {
		return loadEnvFile(ctx.String(envFileFlag.Name))
	}
	app.Commands = []*cli.Command{
		{
			Name:  "version",
			Usage: "Print version information",
			Action: func(ctx *cli.Context) error {
				fmt.Println(version())
				return nil
			},
		},
		{
			Name:   "keygen",
			Usage:  "Generate a TWOFACTOR_ENCRYPTION_KEY value",
			Action: runKeygen,
		},
		{
			Name:   "enroll",
			Usage:  "Start enrollment and print the provisioning URI",
			Flags:  []cli.Flag{accountFlag, labelFlag, qrOutFlag},
			Action: withService(runEnroll),
		},
		{
			Name:   "confirm",
			Usage:  "Confirm a pending enrollment with the first code",
			Flags:  []cli.Flag{accountFlag, codeFlag},
			Action: withService(runConfirm),
		},
		{
			Name:   "verify",
			Usage:  "Verify a login code",
			Flags:  []cli.Flag{accountFlag, codeFlag},
			Action: withService(runVerify),
		},
		{
			Name:   "disable",
			Usage:  "Remove two-factor authentication from an account",
			Flags:  []cli.Flag{accountFlag},
			Action: withService(runDisable),
		},
		{
			Name:   "cancel",
			Usage:  "Discard a pending enrollment",
			Flags:  []cli.Flag{accountFlag},
			Action: withService(runCancel),
		},
		{
			Name:   "status",
			Usage:  "Print the two-factor status of an account",
			Flags:  []cli.Flag{accountFlag},
			Action: withService(runStatus),
		},
		{
			Name:   "purge",
			Usage:  "Delete pending enrollments whose window has elapsed",
			Flags:  []cli.Flag{watchFlag},
			Action: withService(runPurge),
		},
		{
			Name:   "health",
			Usage:  "Check MongoDB and Redis connectivity",
			Action: runHealth,
		},
	}
}

func version() string {
	if gitTag == "" {
		gitTag = "dev"
	}
	if gitCommit == "" {
		return gitTag
	}
	return gitTag + "-" + gitCommit
}

func runKeygen(ctx *cli.Context) error {
	key, err := secrets.GenerateKey()
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, secrets.EncodeKey(key))
	return nil
}

func runEnroll(ctx *cli.Context, svc *twofactor.Service) error {
	enrollment, err := svc.BeginEnrollment(ctx.Context, ctx.String(accountFlag.Name), ctx.String(labelFlag.Name))
	if err != nil {
		return err
	}

	if path := ctx.String(qrOutFlag.Name); path != "" {
		if err := os.WriteFile(path, enrollment.QRCode, 0o600); err != nil {
			return fmt.Errorf("write qr code: %w", err)
		}
		fmt.Fprintf(ctx.App.Writer, "QR code written to %s\n", path)
	}
	fmt.Fprintln(ctx.App.Writer, enrollment.URI)
	fmt.Fprintf(ctx.App.Writer, "Confirm before %s\n", enrollment.ExpiresAt.Format(time.RFC3339))
	return nil
}

func runConfirm(ctx *cli.Context, svc *twofactor.Service) error {
	err := svc.ConfirmEnrollment(ctx.Context, ctx.String(accountFlag.Name), ctx.String(codeFlag.Name))
	if errors.Is(err, twofactor.ErrEnrollmentExpired) {
		return cli.Exit("enrollment expired, run enroll again", 1)
	}
	if err != nil {
		return publicExit(err)
	}
	fmt.Fprintln(ctx.App.Writer, "two-factor authentication enabled")
	return nil
}

func runVerify(ctx *cli.Context, svc *twofactor.Service) error {
	if err := svc.VerifyLogin(ctx.Context, ctx.String(accountFlag.Name), ctx.String(codeFlag.Name)); err != nil {
		return publicExit(err)
	}
	fmt.Fprintln(ctx.App.Writer, "ok")
	return nil
}

func runDisable(ctx *cli.Context, svc *twofactor.Service) error {
	if err := svc.Disable(ctx.Context, ctx.String(accountFlag.Name)); err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, "two-factor authentication disabled")
	return nil
}

func runCancel(ctx *cli.Context, svc *twofactor.Service) error {
	if err := svc.CancelEnrollment(ctx.Context, ctx.String(accountFlag.Name)); err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, "pending enrollment discarded")
	return nil
}

func runStatus(ctx *cli.Context, svc *twofactor.Service) error {
	status, err := svc.Status(ctx.Context, ctx.String(accountFlag.Name))
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, status)
	return nil
}

func runPurge(ctx *cli.Context, svc *twofactor.Service) error {
	n, err := svc.PurgeExpired(ctx.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "%d expired enrollment(s) removed\n", n)
	if !ctx.Bool(watchFlag.Name) {
		return nil
	}

	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if cfg.TwoFactor.CleanupInterval <= 0 {
		return cli.Exit("TWOFACTOR_CLEANUP_INTERVAL must be positive with --watch", 1)
	}

	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	svc.StartCleanup(runCtx, cfg.TwoFactor.CleanupInterval)
	<-runCtx.Done()
	return nil
}

// publicExit hides which check failed, the way a login form would.
func publicExit(err error) error {
	if errors.Is(err, twofactor.ErrTooManyAttempts) {
		return cli.Exit("too many attempts, try again later", 2)
	}
	return cli.Exit(twofactor.PublicError(err).Error(), 1)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
