// Command portalctl talks to the scholarship API from a terminal: it signs in,
// resolves routes for a role and manages user roles.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/mawahib/portal/internal/apiclient"
	"github.com/mawahib/portal/internal/config"
	"github.com/mawahib/portal/internal/logger"
	"github.com/mawahib/portal/internal/model"
	"github.com/mawahib/portal/internal/navigation"
	"github.com/mawahib/portal/internal/validator"
)

const usage = `Usage: portalctl <command> [args]

Commands:
  login                     sign in and print the API token
  resolve <role> <path>     print the view a role sees at path
  summary [category]        print the admin summary (needs PORTAL_TOKEN)
  users [role]              list accounts (needs PORTAL_TOKEN)
  set-role <user-id> <role> change a user's role (needs PORTAL_TOKEN)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.New(os.Stderr, cfg.LogLevel, "pretty")

	api := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(logger.Component(log, "apiclient")),
	)
	if token := os.Getenv("PORTAL_TOKEN"); token != "" {
		api = api.WithTokenSource(apiclient.StaticToken(token))
	}

	ctx := context.Background()
	args := os.Args[2:]

	var err error
	switch os.Args[1] {
	case "login":
		err = login(ctx, api)
	case "resolve":
		err = resolve(args)
	case "summary":
		err = summary(ctx, api, args)
	case "users":
		err = users(ctx, api, args)
	case "set-role":
		err = setRole(ctx, api, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", apiclient.UserMessage(err, err.Error()))
		os.Exit(1)
	}
}

func login(ctx context.Context, api *apiclient.Client) error {
	validator.Setup()
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Sign in to the scholarship portal ===")

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.ToLower(strings.TrimSpace(email))

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Newline after password input
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	req := model.LoginRequest{Email: email, Password: string(bytePassword)}
	if fields := validator.Struct(req); fields != nil {
		for name, msg := range fields {
			fmt.Printf("  %s: %s\n", name, msg)
		}
		return fmt.Errorf("invalid input")
	}

	res, err := api.Login(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("\nSigned in as %s <%s> (%s)\n", res.User.Name, res.User.Email, displayRole(res.User.Role))
	fmt.Printf("Dashboard: %s\n\n", navigation.Dashboard(res.User.Role))
	fmt.Printf("export PORTAL_TOKEN=%s\n", res.Token)
	return nil
}

func resolve(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("resolve needs <role> <path>")
	}
	role := model.ParseRole(args[0])
	authenticated := !strings.EqualFold(args[0], "guest")

	res := navigation.Resolve(authenticated, role, args[1])
	return printJSON(res)
}

func summary(ctx context.Context, api *apiclient.Client, args []string) error {
	category := model.CategoryUsers
	if len(args) > 0 {
		c, ok := model.ParseSummaryCategory(args[0])
		if !ok {
			return fmt.Errorf("unknown category %q", args[0])
		}
		category = c
	}

	rows, err := api.Summary(ctx, category)
	if err != nil {
		return err
	}

	fmt.Printf("=== %s ===\n", category.Title())
	for _, r := range rows {
		fmt.Printf("%-24s %-32s %-20s %d\n", r.Name, r.Email, displayRole(r.Role), r.Count(category))
	}
	return nil
}

func users(ctx context.Context, api *apiclient.Client, args []string) error {
	list, err := api.Users(ctx)
	if err != nil {
		return err
	}

	filter := model.RoleUnknown
	if len(args) > 0 {
		if filter = model.ParseRole(strings.Join(args, " ")); filter == model.RoleUnknown {
			return fmt.Errorf("unknown role %q", strings.Join(args, " "))
		}
	}

	for _, u := range list {
		if filter != model.RoleUnknown && u.Role != filter {
			continue
		}
		fmt.Printf("%-26s %-24s %-32s %s\n", u.ID, u.Name, u.Email, displayRole(u.Role))
	}
	return nil
}

func setRole(ctx context.Context, api *apiclient.Client, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("set-role needs <user-id> <role>")
	}
	role := model.ParseRole(strings.Join(args[1:], " "))
	if role == model.RoleUnknown {
		return fmt.Errorf("unknown role %q", strings.Join(args[1:], " "))
	}

	if err := api.UpdateUserRole(ctx, args[0], role); err != nil {
		return err
	}
	fmt.Printf("Success! User %s is now %s\n", args[0], role)
	return nil
}

func displayRole(r model.Role) string {
	if r == model.RoleUnknown {
		return "(none)"
	}
	return string(r)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
