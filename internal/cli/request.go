package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/hopper/cookie"
	"github.com/wesleyorama2/hopper/internal/config"
	"github.com/wesleyorama2/hopper/internal/logging"
	"github.com/wesleyorama2/hopper/internal/output"
	"github.com/wesleyorama2/hopper/internal/pace"
	"github.com/wesleyorama2/hopper/internal/stats"
	"github.com/wesleyorama2/hopper/pkg/jsonbody"
	"github.com/wesleyorama2/hopper/pkg/jsonpath"
	"github.com/wesleyorama2/hopper/pkg/jsonschema"
	"github.com/wesleyorama2/hopper/session"
	"github.com/wesleyorama2/hopper/transport"
)

// errSchemaMismatch is returned after output when --schema rejects the body.
var errSchemaMismatch = errors.New("response body does not match schema")

// requestFlags holds the per-command request flags
type requestFlags struct {
	headers        []string
	data           string
	json           string
	fields         []string
	cookies        []string
	timeout        time.Duration
	noFollow       bool
	maxRedirs      int
	redirectPolicy string
	insecure       bool
	referer        string
	autoReferer    bool
	extract        []string
	schema         string
	repeat         int
	rate           float64
}

func addRequestFlags(cmd *cobra.Command, f *requestFlags, withBody bool) {
	flags := cmd.Flags()
	flags.StringArrayVarP(&f.headers, "header", "H", nil, "HTTP headers to include (can be used multiple times)")
	flags.StringArrayVarP(&f.cookies, "cookie", "b", nil, "Cookies as name=value, or a full \"a=1; b=2\" header (can be used multiple times)")
	flags.DurationVarP(&f.timeout, "timeout", "t", 30*time.Second, "Timeout for each transfer")
	flags.BoolVar(&f.noFollow, "no-follow", false, "Do not follow Location headers")
	flags.IntVar(&f.maxRedirs, "max-redirs", session.DefaultMaxRedirects, "Maximum redirect hops, -1 for no limit")
	flags.StringVar(&f.redirectPolicy, "redirect-policy", "preserve", "Method on redirect: preserve, or rfc7231 to switch to GET on 301/302/303")
	flags.BoolVarP(&f.insecure, "insecure", "k", false, "Skip TLS certificate verification")
	flags.StringVarP(&f.referer, "referer", "e", "", "Referer header to send")
	flags.BoolVar(&f.autoReferer, "auto-referer", false, "Set Referer to the previous URL on each redirect")
	flags.StringArrayVar(&f.extract, "extract", nil, "JSONPath to extract from the response body (can be used multiple times)")
	flags.StringVar(&f.schema, "schema", "", "JSON Schema file the response body must match")
	flags.IntVar(&f.repeat, "repeat", 1, "Run the request N times and print a latency summary")
	flags.Float64Var(&f.rate, "rate", 0, "Runs per second for --repeat, 0 to run back to back")

	if withBody {
		flags.StringVarP(&f.data, "data", "d", "", "Form data to send, or @file to send a file's contents")
		flags.StringVarP(&f.json, "json", "j", "", "JSON body to send")
		flags.StringArrayVar(&f.fields, "field", nil, "Set a JSON body field as path=value (can be used multiple times)")
	}
}

// runRequest is the body of every request command.
func runRequest(cmd *cobra.Command, g *globalFlags, f *requestFlags, method, rawURL string) error {
	stderr := cmd.ErrOrStderr()
	stdout := cmd.OutOrStdout()

	logger, closer, err := logging.New(logging.Config{
		Level:   g.logLevel,
		File:    g.logFile,
		Console: true,
		NoColor: !output.ColorEnabled(stderr, g.noColor),
		Stderr:  stderr,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	format, err := output.ParseFormat(g.output)
	if err != nil {
		return err
	}
	noColor := !output.ColorEnabled(stdout, g.noColor)
	formatter := output.GetFormatter(format, g.verbose, noColor)

	profile, err := loadProfile(g)
	if err != nil {
		return err
	}

	opts, err := sessionOptions(cmd, f, profile)
	if err != nil {
		return err
	}
	follow := !profile.NoFollow
	if cmd.Flags().Changed("no-follow") {
		follow = !f.noFollow
	}

	headers := profile.HeaderList()
	for _, line := range f.headers {
		h, err := session.ParseHeader(line)
		if err != nil {
			return err
		}
		headers = append(headers, h)
	}

	cookies := cookie.SortedPairs(profile.Cookies)
	for _, raw := range f.cookies {
		pairs, err := parseCookieFlag(raw)
		if err != nil {
			return err
		}
		cookies = append(cookies, pairs...)
	}

	data, err := requestData(f)
	if err != nil {
		return err
	}

	var schema *jsonschema.Schema
	if f.schema != "" {
		doc, err := os.ReadFile(f.schema)
		if err != nil {
			return fmt.Errorf("error reading schema file: %w", err)
		}
		if schema, err = jsonschema.Compile(string(doc)); err != nil {
			return err
		}
	}

	target := normalizeURL(profile.ResolveURL(rawURL))
	runs := f.repeat
	if runs < 1 {
		runs = 1
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	recorder := stats.NewRecorder()
	pacer := pace.New(f.rate)
	var result *output.Result
	var lastErr error
	failed := 0

	for i := 0; i < runs; i++ {
		if err := pacer.Wait(ctx); err != nil {
			return err
		}

		sess := newSession(target, headers, cookies, opts, logger)

		start := time.Now()
		body, err := send(ctx, sess, method, data, follow)
		elapsed := time.Since(start)
		recorder.Record(elapsed, err == nil, sess.RedirectCount(), len(body))

		if err != nil {
			logger.Warn().Err(err).Int("run", i+1).Str("url", target).Msg("request failed")
			lastErr = err
			failed++
			sess.Close()
			continue
		}

		result = newResult(sess, method, target, body)
		sess.Close()
	}

	if result == nil {
		return lastErr
	}

	schemaFailed := false
	if schema != nil {
		errs := schema.ValidateJSON(result.Body)
		valid := len(errs) == 0
		result.SchemaValid = &valid
		for _, e := range errs {
			result.SchemaErrors = append(result.SchemaErrors, e.Error())
		}
		schemaFailed = !valid
	}
	if len(f.extract) > 0 {
		result.Extracted = jsonpath.ExtractAll(result.Body, f.extract)
	}

	fmt.Fprintln(stdout, strings.TrimRight(formatter.FormatResult(result), "\n"))
	if runs > 1 {
		fmt.Fprintln(stdout, strings.TrimRight(formatter.FormatSummary(recorder.Summary()), "\n"))
	}

	if schemaFailed {
		return errSchemaMismatch
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed: %w", failed, runs, lastErr)
	}
	return nil
}

// loadProfile returns the selected profile, or an empty one without --config.
func loadProfile(g *globalFlags) (config.Profile, error) {
	if g.config == "" {
		if g.profile != "" {
			return config.Profile{}, fmt.Errorf("--profile %q given without --config", g.profile)
		}
		return config.Profile{}, nil
	}

	cfg, err := config.LoadConfig(g.config)
	if err != nil {
		return config.Profile{}, err
	}

	name := g.profile
	if name == "" {
		names := cfg.ProfileNames()
		if len(names) == 1 {
			name = names[0]
		} else {
			name = "default"
		}
	}
	return cfg.Profile(name)
}

// sessionOptions starts from the profile and applies the flags that were set.
func sessionOptions(cmd *cobra.Command, f *requestFlags, profile config.Profile) (session.Options, error) {
	opts, err := profile.SessionOptions()
	if err != nil {
		return session.Options{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("timeout") || opts.Timeout == 0 {
		opts.Timeout = f.timeout
	}
	if flags.Changed("max-redirs") {
		opts.MaxRedirects = f.maxRedirs
	}
	if flags.Changed("redirect-policy") {
		policy, err := session.ParseRedirectPolicy(f.redirectPolicy)
		if err != nil {
			return session.Options{}, err
		}
		opts.RedirectPolicy = policy
	}
	if flags.Changed("insecure") {
		opts.InsecureSkipVerify = f.insecure
	}
	if flags.Changed("referer") {
		opts.Referer = f.referer
	}
	if flags.Changed("auto-referer") {
		opts.AutoReferer = f.autoReferer
	}
	return opts, nil
}

// requestData returns what to pass to Post, Put or Delete.
func requestData(f *requestFlags) (interface{}, error) {
	if f.data != "" && (f.json != "" || len(f.fields) > 0) {
		return nil, errors.New("--data cannot be combined with --json or --field")
	}

	if f.json != "" || len(f.fields) > 0 {
		body, err := jsonbody.Build([]byte(f.json), f.fields)
		if err != nil {
			return nil, err
		}
		return jsoniter.RawMessage(body), nil
	}

	if strings.HasPrefix(f.data, "@") {
		content, err := os.ReadFile(strings.TrimPrefix(f.data, "@"))
		if err != nil {
			return nil, fmt.Errorf("error reading data file: %w", err)
		}
		return content, nil
	}
	if f.data != "" {
		return f.data, nil
	}
	return nil, nil
}

func newSession(target string, headers []transport.Header, cookies []cookie.Pair, opts session.Options, logger zerolog.Logger) *session.Session {
	sess := session.New(target, session.WithOptions(opts), session.WithLogger(logger))
	if len(headers) > 0 {
		sess.SetHeaders(withUserAgent(headers)...)
	}
	if len(cookies) > 0 {
		sess.SetCookiePairs(cookies...)
	}
	return sess
}

func send(ctx context.Context, sess *session.Session, method string, data interface{}, follow bool) ([]byte, error) {
	switch method {
	case http.MethodHead:
		_, err := sess.Head(ctx, follow)
		return nil, err
	case http.MethodPost:
		return sess.Post(ctx, data, follow)
	case http.MethodPut:
		return sess.Put(ctx, data, follow)
	case http.MethodDelete:
		return sess.Delete(ctx, data, follow)
	default:
		return sess.Get(ctx, follow)
	}
}

func newResult(sess *session.Session, method, target string, body []byte) *output.Result {
	result := &output.Result{
		Method:    method,
		URL:       target,
		FinalURL:  sess.URL(),
		Redirects: sess.RedirectCount(),
		Body:      body,
		Timing:    sess.Info().Timing,

		HeadersOnly: method == http.MethodHead,
	}

	if resp := sess.LastResponse(); resp != nil {
		result.Proto = resp.Proto
		result.StatusCode = resp.StatusCode
		result.Status = resp.Status
		result.Headers = resp.Headers.Map()
	}
	if cookies, ok := sess.Cookies(); ok {
		result.Cookies = cookie.Values(cookies)
	}
	return result
}

// withUserAgent prepends the default User-Agent unless headers set one.
func withUserAgent(headers []transport.Header) []transport.Header {
	for _, h := range headers {
		if strings.EqualFold(h.Key, "User-Agent") {
			return headers
		}
	}
	return append([]transport.Header{{Key: "User-Agent", Value: session.DefaultUserAgent}}, headers...)
}

// parseCookieFlag accepts "name=value" or a whole "a=1; b=2" header.
func parseCookieFlag(raw string) ([]cookie.Pair, error) {
	var pairs []cookie.Pair
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid cookie %q, expected name=value", part)
		}
		pairs = append(pairs, cookie.Pair{Key: strings.TrimSpace(key), Value: value})
	}
	return pairs, nil
}

// normalizeURL adds http:// when the URL has no scheme.
func normalizeURL(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" && u.Host != "" {
		return rawURL
	}
	return "http://" + rawURL
}
