package main

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/pkg/client"
	"coursehub_backend/pkg/progress"
	"coursehub_backend/pkg/recommend"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	api          *client.Client
	session      *client.Session
	tracker      *progress.Tracker
	cache        *client.CourseCache
	rng          recommend.Rand
	out          io.Writer
	readPassword func(fd int) ([]byte, error)
}

func newCommandLine(api *client.Client, kv progress.KV, out io.Writer) *commandLine {
	return &commandLine{
		api:          api,
		session:      client.NewSession(kv),
		tracker:      progress.NewTracker(kv),
		cache:        client.NewCourseCache(),
		rng:          recommend.Default,
		out:          out,
		readPassword: term.ReadPassword,
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  register -name NAME -email EMAIL     - create an account (password prompted)")
	fmt.Fprintln(cli.out, "  login -email EMAIL                   - sign in (password prompted)")
	fmt.Fprintln(cli.out, "  logout                               - forget the stored token")
	fmt.Fprintln(cli.out, "  list [-term T] [-category C] [-difficulty D] [-sort az|za] [-page N]")
	fmt.Fprintln(cli.out, "  search TERM                          - server-side search on title and description")
	fmt.Fprintln(cli.out, "  show ID                              - course outline with local progress")
	fmt.Fprintln(cli.out, "  create -file FILE                    - create a course from YAML/JSON (admin)")
	fmt.Fprintln(cli.out, "  update -file FILE ID                 - patch a course from YAML/JSON (admin)")
	fmt.Fprintln(cli.out, "  delete ID [ID...]                    - delete one or more courses (admin)")
	fmt.Fprintln(cli.out, "  toggle ID SECTION LESSON             - flip a lesson's completion")
	fmt.Fprintln(cli.out, "  progress ID                          - completion percentage")
	fmt.Fprintln(cli.out, "  next ID                              - first incomplete lesson")
	fmt.Fprintln(cli.out, "  recommend                            - pick a course not yet completed")
	fmt.Fprintln(cli.out, "  explain CONCEPT...                   - ask the AI tutor")
	fmt.Fprintln(cli.out, "  quiz ID SECTION LESSON               - generate a quiz for a lesson")
}

// run args[0] 为子命令
func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		cli.printUsage()
		return errHelp
	}

	if token, err := cli.session.Token(); err == nil && token != "" && cli.api.Token == "" {
		cli.api.Token = token
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return cli.register(ctx, rest)
	case "login":
		return cli.login(ctx, rest)
	case "logout":
		cli.api.Token = ""
		return cli.session.Clear()
	case "list":
		return cli.list(ctx, rest)
	case "search":
		return cli.search(ctx, rest)
	case "show":
		return cli.show(ctx, rest)
	case "create":
		return cli.create(ctx, rest)
	case "update":
		return cli.update(ctx, rest)
	case "delete":
		return cli.delete(ctx, rest)
	case "toggle":
		return cli.toggle(ctx, rest)
	case "progress":
		return cli.progress(ctx, rest)
	case "next":
		return cli.next(ctx, rest)
	case "recommend":
		return cli.recommend(ctx)
	case "explain":
		return cli.explain(ctx, rest)
	case "quiz":
		return cli.quiz(ctx, rest)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := cli.readPassword(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(pwd), nil
}

func (cli *commandLine) remember(token string) error {
	claims, err := cli.session.Save(token)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Signed in as %s (%s)\n", claims.Email, claims.Role)
	return nil
}

func (cli *commandLine) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		fs.Usage()
		return errHelp
	}

	pwd, err := cli.promptPassword()
	if err != nil {
		return err
	}
	token, err := cli.api.Register(ctx, *name, *email, pwd)
	if err != nil {
		return err
	}
	return cli.remember(token)
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		fs.Usage()
		return errHelp
	}

	pwd, err := cli.promptPassword()
	if err != nil {
		return err
	}
	token, err := cli.api.Login(ctx, *email, pwd)
	if err != nil {
		return err
	}
	return cli.remember(token)
}

func (cli *commandLine) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	q := client.Query{}
	fs.StringVar(&q.Term, "term", "", "filter titles locally")
	fs.StringVar(&q.Category, "category", "", "exact category")
	fs.StringVar(&q.Difficulty, "difficulty", "", "exact difficulty")
	sortOrder := fs.String("sort", string(client.SortAZ), "az or za")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q.Sort = client.SortOrder(*sortOrder)

	if err := cli.cache.Refresh(ctx, cli.api); err != nil {
		return err
	}
	items, totalPages := client.Paginate(q.Apply(cli.cache.Courses()), *page, client.DefaultPageSize)
	cli.printCourses(items)
	if totalPages > 1 {
		fmt.Fprintf(cli.out, "page %d of %d\n", *page, totalPages)
	}
	return nil
}

func (cli *commandLine) search(ctx context.Context, args []string) error {
	if err := cli.cache.Search(ctx, cli.api, strings.Join(args, " ")); err != nil {
		return err
	}
	cli.printCourses(cli.cache.Courses())
	return nil
}

func (cli *commandLine) printCourses(courses []model.Course) {
	if len(courses) == 0 {
		fmt.Fprintln(cli.out, "No courses found.")
		return
	}
	for _, c := range courses {
		fmt.Fprintf(cli.out, "%s  %s", c.ID, c.Title)
		if c.Category != "" || c.Difficulty != "" {
			fmt.Fprintf(cli.out, "  [%s/%s]", c.Category, c.Difficulty)
		}
		fmt.Fprintln(cli.out)
	}
}

func (cli *commandLine) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		cli.printUsage()
		return errHelp
	}
	course, err := cli.api.GetCourse(ctx, args[0])
	if err != nil {
		return err
	}
	status, err := cli.tracker.Status(course)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "%s (%d%%)\n", course.Title, status.Percent)
	for si, s := range course.Sections {
		fmt.Fprintf(cli.out, "  %d. %s\n", si, s.Title)
		for li, l := range s.Lessons {
			mark := " "
			if status.Lessons[progress.LessonKey(si, li)] {
				mark = "x"
			}
			fmt.Fprintf(cli.out, "    [%s] %d-%d %s\n", mark, si, li, l.Title)
		}
	}
	return nil
}

func decodeFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

func (cli *commandLine) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	file := fs.String("file", "", "YAML or JSON course draft")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		fs.Usage()
		return errHelp
	}

	var draft client.CourseDraft
	if err := decodeFile(*file, &draft); err != nil {
		return err
	}
	course, err := cli.cache.Create(ctx, cli.api, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created %s  %s\n", course.ID, course.Title)
	return nil
}

func (cli *commandLine) update(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	file := fs.String("file", "", "YAML or JSON with the fields to replace")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" || fs.NArg() != 1 {
		fs.Usage()
		return errHelp
	}

	var patch client.CoursePatch
	if err := decodeFile(*file, &patch); err != nil {
		return err
	}
	course, err := cli.cache.Update(ctx, cli.api, fs.Arg(0), patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Updated %s  %s\n", course.ID, course.Title)
	return nil
}

func (cli *commandLine) delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}
	if len(args) == 1 {
		if err := cli.cache.Delete(ctx, cli.api, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Deleted successfully")
		return nil
	}

	deleted, err := cli.cache.BulkDelete(ctx, cli.api, args)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Deleted %d of %d courses\n", len(deleted), len(args))
	return nil
}

// lessonArgs 解析 "ID SECTION LESSON"
func lessonArgs(args []string) (string, int, int, error) {
	if len(args) != 3 {
		return "", 0, 0, errHelp
	}
	s, err := strconv.Atoi(args[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid section index %q", args[1])
	}
	l, err := strconv.Atoi(args[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid lesson index %q", args[2])
	}
	return args[0], s, l, nil
}

func (cli *commandLine) toggle(ctx context.Context, args []string) error {
	id, s, l, err := lessonArgs(args)
	if err != nil {
		if errors.Is(err, errHelp) {
			cli.printUsage()
		}
		return err
	}
	course, err := cli.api.GetCourse(ctx, id)
	if err != nil {
		return err
	}
	status, err := cli.tracker.ToggleLesson(course, s, l)
	if err != nil {
		return err
	}

	state := "incomplete"
	if status.Lessons[progress.LessonKey(s, l)] {
		state = "complete"
	}
	fmt.Fprintf(cli.out, "Lesson %s marked %s. Progress: %d%%\n", progress.LessonKey(s, l), state, status.Percent)
	return nil
}

func (cli *commandLine) progress(ctx context.Context, args []string) error {
	if len(args) != 1 {
		cli.printUsage()
		return errHelp
	}
	course, err := cli.api.GetCourse(ctx, args[0])
	if err != nil {
		return err
	}
	status, err := cli.tracker.Status(course)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s: %d%%\n", course.Title, status.Percent)
	return nil
}

func (cli *commandLine) next(ctx context.Context, args []string) error {
	if len(args) != 1 {
		cli.printUsage()
		return errHelp
	}
	course, err := cli.api.GetCourse(ctx, args[0])
	if err != nil {
		return err
	}
	m, err := cli.tracker.Progress(course.ID)
	if err != nil {
		return err
	}

	addr, ok := progress.FindNextIncomplete(course, m)
	if !ok {
		fmt.Fprintln(cli.out, "All lessons completed.")
		return nil
	}
	lesson, _ := course.LessonAt(addr.SectionIndex, addr.LessonIndex)
	fmt.Fprintf(cli.out, "Next: %s %s\n", addr.Key(), lesson.Title)
	return nil
}

func (cli *commandLine) recommend(ctx context.Context) error {
	if err := cli.cache.Refresh(ctx, cli.api); err != nil {
		return err
	}
	completed, err := cli.tracker.CompletedCourses()
	if err != nil {
		return err
	}

	course, ok := recommend.Pick(cli.cache.Courses(), completed, cli.rng)
	if !ok {
		fmt.Fprintln(cli.out, "Nothing to recommend.")
		return nil
	}
	fmt.Fprintf(cli.out, "Recommended: %s  %s\n", course.ID, course.Title)
	return nil
}

func (cli *commandLine) explain(ctx context.Context, args []string) error {
	concept := strings.TrimSpace(strings.Join(args, " "))
	if concept == "" {
		cli.printUsage()
		return errHelp
	}
	explanation, err := cli.api.Explain(ctx, concept)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, explanation)
	return nil
}

func (cli *commandLine) quiz(ctx context.Context, args []string) error {
	id, s, l, err := lessonArgs(args)
	if err != nil {
		if errors.Is(err, errHelp) {
			cli.printUsage()
		}
		return err
	}
	raw, err := cli.api.GenerateQuiz(ctx, id, s, l)
	if err != nil {
		return err
	}

	var pretty interface{}
	if err := json.Unmarshal(raw, &pretty); err != nil {
		fmt.Fprintln(cli.out, string(raw))
		return nil
	}
	data, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Fprintln(cli.out, string(data))
	return nil
}
