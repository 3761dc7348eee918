package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/client"
	"fintrack/internal/models"
	"fintrack/internal/summary"
)

// app holds what every command needs.
type app struct {
	gw  *client.Gateway
	out io.Writer
	now func() time.Time
}

func newApp(gw *client.Gateway, out io.Writer) *app {
	return &app{gw: gw, out: out, now: time.Now}
}

func (a *app) registerCommands(r *CommandRegistry) {
	add := func(cmd *Command, run func(ctx context.Context, cmd *Command, args []string) error) {
		cmd.Run = func(ctx context.Context, args []string) error { return run(ctx, cmd, args) }
		r.Register(cmd)
	}

	add(&Command{
		Name:        "login",
		Description: "Sign in and remember the session",
		Usage:       "fintrack login --email <email> --password <password>",
		Examples:    []string{"fintrack login --email ana@example.com --password secret"},
	}, a.login)
	add(&Command{
		Name:        "register",
		Description: "Create an account and sign in",
		Usage:       "fintrack register --name <name> --email <email> --password <password>",
	}, a.register)
	add(&Command{
		Name:        "logout",
		Description: "Forget the session and the cached data",
		Usage:       "fintrack logout",
	}, a.logout)
	add(&Command{
		Name:        "status",
		Description: "Show the signed-in user and whether the API is reachable",
		Usage:       "fintrack status",
	}, a.status)
	add(&Command{
		Name:        "people",
		Description: "List people",
		Usage:       "fintrack people",
	}, a.people)
	add(&Command{
		Name:        "add-person",
		Description: "Add a person",
		Usage:       "fintrack add-person <name>",
		Examples:    []string{`fintrack add-person "Bruno"`},
	}, a.addPerson)
	add(&Command{
		Name:        "rm-person",
		Description: "Delete a person without entries",
		Usage:       "fintrack rm-person <id>",
	}, a.removePerson)
	add(&Command{
		Name:        "entries",
		Description: "List entries, newest first",
		Usage:       "fintrack entries [--month YYYY-MM]",
		Examples:    []string{"fintrack entries", "fintrack entries --month 2024-03"},
	}, a.entries)
	add(&Command{
		Name:        "add-entry",
		Description: "Record an income or expense",
		Usage:       "fintrack add-entry --type <type> --person <id|name> --value <n> --description <text> [--date YYYY-MM-DD] [--repeat N]",
		Examples: []string{
			`fintrack add-entry --type income --person Bruno --value 42.50 --description "Freelance"`,
			`fintrack add-entry --type fixed-expense --person Bruno --value 900 --description Rent --date 2024-03-01`,
			`fintrack add-entry --type fixed-expense --person Bruno --value 900 --description Rent --date 2024-01-05 --repeat 12`,
		},
	}, a.addEntry)
	add(&Command{
		Name:        "edit-entry",
		Description: "Change fields of an entry",
		Usage:       "fintrack edit-entry <id> [--type] [--person] [--date] [--value] [--description]",
		Examples:    []string{"fintrack edit-entry 0190f0e2 --value 45"},
	}, a.editEntry)
	add(&Command{
		Name:        "rm-entry",
		Description: "Delete an entry",
		Usage:       "fintrack rm-entry <id>",
	}, a.removeEntry)
	add(&Command{
		Name:        "summary",
		Description: "Show monthly totals",
		Usage:       "fintrack summary [--year YYYY] [--month M]",
		Examples:    []string{"fintrack summary", "fintrack summary --year 2024 --month 3"},
	}, a.summary)
	add(&Command{
		Name:        "sync",
		Description: "Reload people and entries from the API",
		Usage:       "fintrack sync",
	}, a.sync)
}

// unwrap turns a gateway result into data or an error, announcing when the
// data came from the local cache.
func unwrap[T any](a *app, res client.Result[T]) (T, error) {
	var data T
	var err error
	res.Match(
		func(d T) { data = d },
		func(e error) { err = e },
		func(d T, cause error) {
			data = d
			fmt.Fprintf(a.out, "offline (%v): using local data\n", cause)
		},
	)
	return data, err
}

func parseFlags(cmd *Command, out io.Writer, args []string, define func(fs *flag.FlagSet)) (*flag.FlagSet, error) {
	fs := cmd.NewFlagSet(out)
	if define != nil {
		define(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs, nil
}

func oneArg(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		return "", fmt.Errorf("expected exactly one %s", what)
	}
	return fs.Arg(0), nil
}

func (a *app) login(ctx context.Context, cmd *Command, args []string) error {
	var email, password string
	if _, err := parseFlags(cmd, a.out, args, func(fs *flag.FlagSet) {
		fs.StringVar(&email, "email", "", "account email")
		fs.StringVar(&password, "password", "", "account password")
	}); err != nil {
		return err
	}
	if email == "" || password == "" {
		return errors.New("--email and --password are required")
	}
	return a.printSession(unwrap(a, a.gw.Login(ctx, email, password)))
}

func (a *app) register(ctx context.Context, cmd *Command, args []string) error {
	var name, email, password string
	if _, err := parseFlags(cmd, a.out, args, func(fs *flag.FlagSet) {
		fs.StringVar(&name, "name", "", "display name")
		fs.StringVar(&email, "email", "", "account email")
		fs.StringVar(&password, "password", "", "account password")
	}); err != nil {
		return err
	}
	if name == "" || email == "" || password == "" {
		return errors.New("--name, --email and --password are required")
	}
	return a.printSession(unwrap(a, a.gw.Register(ctx, name, email, password)))
}

func (a *app) printSession(s client.Session, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s <%s>\n", s.User.Name, s.User.Email)
	return nil
}

func (a *app) logout(_ context.Context, cmd *Command, args []string) error {
	if _, err := parseFlags(cmd, a.out, args, nil); err != nil {
		return err
	}
	if err := a.gw.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *app) status(ctx context.Context, cmd *Command, args []string) error {
	if _, err := parseFlags(cmd, a.out, args, nil); err != nil {
		return err
	}
	res := a.gw.Restore(ctx)
	if errors.Is(res.Error(), client.ErrNoSession) {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	s, err := unwrap(a, res)
	if err != nil {
		return err
	}
	mode := "online"
	if res.IsOffline() {
		mode = "offline"
	}
	fmt.Fprintf(a.out, "Signed in as %s <%s> (%s)\n", s.User.Name, s.User.Email, mode)
	return nil
}

func (a *app) people(ctx context.Context, cmd *Command, args []string) error {
	if _, err := parseFlags(cmd, a.out, args, nil); err != nil {
		return err
	}
	people, err := unwrap(a, a.gw.People(ctx))
	if err != nil {
		return err
	}
	if len(people) == 0 {
		fmt.Fprintln(a.out, "No people yet")
		return nil
	}
	table := NewTableWriter("ID", "NAME")
	for _, p := range people {
		table.AddRow(p.ID, p.Name)
	}
	table.Print(a.out)
	return nil
}

func (a *app) addPerson(ctx context.Context, cmd *Command, args []string) error {
	fs, err := parseFlags(cmd, a.out, args, nil)
	if err != nil {
		return err
	}
	name, err := oneArg(fs, "name")
	if err != nil {
		return err
	}
	person, err := unwrap(a, a.gw.CreatePerson(ctx, name))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s (%s)\n", person.Name, person.ID)
	return nil
}

func (a *app) removePerson(ctx context.Context, cmd *Command, args []string) error {
	fs, err := parseFlags(cmd, a.out, args, nil)
	if err != nil {
		return err
	}
	id, err := oneArg(fs, "person id")
	if err != nil {
		return err
	}
	msg, err := unwrap(a, a.gw.DeletePerson(ctx, id))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg.Message)
	return nil
}

func (a *app) entries(ctx context.Context, cmd *Command, args []string) error {
	var month string
	if _, err := parseFlags(cmd, a.out, args, func(fs *flag.FlagSet) {
		fs.StringVar(&month, "month", "", "only entries of this month (YYYY-MM)")
	}); err != nil {
		return err
	}
	if month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			return fmt.Errorf("invalid --month %q, expected YYYY-MM", month)
		}
	}

	entries, err := unwrap(a, a.gw.Entries(ctx))
	if err != nil {
		return err
	}

	table := NewTableWriter("ID", "DATE", "TYPE", "PERSON", "VALUE", "DESCRIPTION")
	shown := 0
	for _, e := range entries {
		if month != "" && !strings.HasPrefix(e.Date, month+"-") {
			continue
		}
		person := e.Person
		if e.PersonRef != nil {
			person = e.PersonRef.Name
		}
		table.AddRow(e.ID, e.Date, string(e.Type), person, formatMoney(e.Value), e.Description)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(a.out, "No entries")
		return nil
	}
	table.Print(a.out)
	return nil
}

// entryFlags binds the writable entry fields to fs.
type entryFlags struct {
	typ, person, date, description, value string
}

func (f *entryFlags) define(fs *flag.FlagSet) {
	fs.StringVar(&f.typ, "type", "", "income, fixed-expense or variable-expense")
	fs.StringVar(&f.person, "person", "", "person id or name")
	fs.StringVar(&f.date, "date", "", "entry date (YYYY-MM-DD)")
	fs.StringVar(&f.value, "value", "", "positive amount")
	fs.StringVar(&f.description, "description", "", "what the entry is for")
}

// apply overlays the flags that were set onto in.
func (f *entryFlags) apply(ctx context.Context, a *app, in *client.EntryInput) error {
	if f.typ != "" {
		in.Type = models.EntryType(f.typ)
	}
	if f.person != "" {
		id, err := a.resolvePerson(ctx, f.person)
		if err != nil {
			return err
		}
		in.Person = id
	}
	if f.date != "" {
		in.Date = f.date
	}
	if f.value != "" {
		v, err := strconv.ParseFloat(f.value, 64)
		if err != nil {
			return fmt.Errorf("invalid --value %q", f.value)
		}
		in.Value = v
	}
	if f.description != "" {
		in.Description = f.description
	}
	return nil
}

// resolvePerson accepts a person id or a case-insensitive name.
func (a *app) resolvePerson(ctx context.Context, ref string) (string, error) {
	people, err := unwrap(a, a.gw.People(ctx))
	if err != nil {
		return "", err
	}
	for _, p := range people {
		if p.ID == ref {
			return p.ID, nil
		}
	}
	for _, p := range people {
		if strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(ref)) {
			return p.ID, nil
		}
	}
	// Unknown references are passed through so the API reports them.
	return ref, nil
}

func (a *app) addEntry(ctx context.Context, cmd *Command, args []string) error {
	var f entryFlags
	repeat := 1
	if _, err := parseFlags(cmd, a.out, args, func(fs *flag.FlagSet) {
		f.define(fs)
		fs.IntVar(&repeat, "repeat", 1, "fixed expenses only: create one entry per month for N months")
	}); err != nil {
		return err
	}
	in := client.EntryInput{Date: a.now().Format(models.DateLayout)}
	if err := f.apply(ctx, a, &in); err != nil {
		return err
	}
	if repeat < 1 {
		return fmt.Errorf("invalid --repeat %d, must be at least 1", repeat)
	}
	if repeat > 1 && in.Type != models.EntryTypeFixedExpense {
		return fmt.Errorf("--repeat is only allowed for %s entries", models.EntryTypeFixedExpense)
	}

	dates := []string{in.Date}
	if repeat > 1 {
		base, err := models.NormalizeDate(in.Date)
		if err != nil {
			return fmt.Errorf("invalid --date %q", in.Date)
		}
		dates = dates[:0]
		for i := 0; i < repeat; i++ {
			d, _ := models.AddMonths(base, i)
			dates = append(dates, d)
		}
	}

	for i, date := range dates {
		in.Date = date
		entry, err := unwrap(a, a.gw.CreateEntry(ctx, in))
		if err != nil {
			if i > 0 {
				return fmt.Errorf("created %d of %d entries: %w", i, len(dates), err)
			}
			return err
		}
		fmt.Fprintf(a.out, "Added %s %s on %s (%s)\n", entry.Type, formatMoney(entry.Value), entry.Date, entry.ID)
	}
	return nil
}

func (a *app) editEntry(ctx context.Context, cmd *Command, args []string) error {
	var f entryFlags
	fs := cmd.NewFlagSet(a.out)
	f.define(fs)
	// The id may come before or after the flags.
	var id string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if id == "" {
		var err error
		if id, err = oneArg(fs, "entry id"); err != nil {
			return err
		}
	}

	entries, err := unwrap(a, a.gw.Entries(ctx))
	if err != nil {
		return err
	}
	var in client.EntryInput
	found := false
	for _, e := range entries {
		if e.ID == id {
			in = client.EntryInput{Type: e.Type, Person: e.Person, Date: e.Date, Value: e.Value, Description: e.Description}
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("entry %s not found", id)
	}
	if err := f.apply(ctx, a, &in); err != nil {
		return err
	}

	entry, err := unwrap(a, a.gw.UpdateEntry(ctx, id, in))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s: %s %s on %s\n", entry.ID, entry.Type, formatMoney(entry.Value), entry.Date)
	return nil
}

func (a *app) removeEntry(ctx context.Context, cmd *Command, args []string) error {
	fs, err := parseFlags(cmd, a.out, args, nil)
	if err != nil {
		return err
	}
	id, err := oneArg(fs, "entry id")
	if err != nil {
		return err
	}
	msg, err := unwrap(a, a.gw.DeleteEntry(ctx, id))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg.Message)
	return nil
}

func (a *app) summary(ctx context.Context, cmd *Command, args []string) error {
	now := a.now()
	year, month := now.Year(), int(now.Month())
	if _, err := parseFlags(cmd, a.out, args, func(fs *flag.FlagSet) {
		fs.IntVar(&year, "year", year, "calendar year")
		fs.IntVar(&month, "month", month, "month number (1-12)")
	}); err != nil {
		return err
	}
	if month < 1 || month > 12 || year < 1 {
		return fmt.Errorf("invalid period %d-%02d", year, month)
	}

	s, err := unwrap(a, a.gw.Summary(ctx, year, time.Month(month)))
	if err != nil {
		return err
	}
	printSummary(a.out, s)
	return nil
}

func printSummary(w io.Writer, s summary.Summary) {
	fmt.Fprintf(w, "%04d-%02d (%d entries)\n", s.Year, s.Month, s.EntryCount)
	fmt.Fprintf(w, "  Income:            %s\n", formatMoney(s.Income))
	fmt.Fprintf(w, "  Fixed expenses:    %s\n", formatMoney(s.FixedExpenses))
	fmt.Fprintf(w, "  Variable expenses: %s\n", formatMoney(s.VariableExpenses))
	fmt.Fprintf(w, "  Balance:           %s\n", formatMoney(s.Balance))
	if len(s.ByPerson) == 0 {
		return
	}
	fmt.Fprintln(w)
	table := NewTableWriter("PERSON", "INCOME", "EXPENSES", "BALANCE")
	for _, p := range s.ByPerson {
		name := p.Name
		if name == "" {
			name = p.PersonID
		}
		table.AddRow(name, formatMoney(p.Income), formatMoney(p.Expenses), formatMoney(p.Balance))
	}
	table.Print(w)
}

func (a *app) sync(ctx context.Context, cmd *Command, args []string) error {
	if _, err := parseFlags(cmd, a.out, args, nil); err != nil {
		return err
	}
	res := a.gw.Sync(ctx)
	if res.IsOffline() {
		return fmt.Errorf("API still unreachable: %v", res.Cause())
	}
	report, err := unwrap(a, res)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Synchronized %d people and %d entries\n", report.People, report.Entries)
	return nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
