package scraper

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// stealthJS masks the usual headless-browser tells before any site script
// runs. Injected on every new document.
const stealthJS = `
	Object.defineProperty(navigator, 'userAgent', {
		get: function () { return 'Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36'; }
	});
	Object.defineProperty(navigator, 'webdriver', {
		get: () => undefined,
	});
	Object.defineProperty(navigator, 'plugins', {
		get: () => [1, 2, 3, 4, 5],
	});
	Object.defineProperty(navigator, 'languages', {
		get: () => ['en-US', 'en'],
	});
	Object.defineProperty(navigator, 'platform', {
		get: () => 'Win32',
	});
	window.chrome = {
		runtime: {},
	};
`

// Session owns one launched browser plus its scratch profile directory.
// Acquire with NewSession, release with Close; Close always reclaims the
// profile directory even if the browser already died.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	dataDir  string
	detector *botDetector
}

// NewSession launches a headless browser with a throwaway user data dir.
func NewSession(ctx context.Context) (*Session, error) {
	dataDir, err := os.MkdirTemp("", "dealscout-profile-")
	if err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}

	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false).
		UserDataDir(dataDir)

	// Use system Chromium in Docker, auto-detect locally.
	if _, err := os.Stat("/usr/bin/chromium-browser"); err == nil {
		l = l.Bin("/usr/bin/chromium-browser")
	}

	controlURL, err := l.Launch()
	if err != nil {
		os.RemoveAll(dataDir)
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		os.RemoveAll(dataDir)
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	return &Session{
		browser:  browser,
		launcher: l,
		dataDir:  dataDir,
		detector: newBotDetector(),
	}, nil
}

// Close tears the browser down and removes the scratch profile.
func (s *Session) Close() {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			log.Printf("browser close: %v", err)
		}
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
	if s.dataDir != "" {
		os.RemoveAll(s.dataDir)
	}
}

// Open navigates a fresh stealth page to url and waits for it to settle.
// The returned page inherits ctx; callers must close it.
func (s *Session) Open(ctx context.Context, url string) (*rod.Page, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	page = page.Context(ctx)

	page.MustEvalOnNewDocument(stealthJS)
	page.MustSetViewport(1920, 1080, 1.0, false)

	if err := page.Navigate(url); err != nil {
		page.Close()
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		page.Close()
		return nil, fmt.Errorf("wait load %s: %w", url, err)
	}

	// Give client-side rendering a moment, then wait for layout to settle.
	time.Sleep(2 * time.Second)
	if err := page.WaitStable(time.Second); err != nil {
		log.Printf("page did not stabilize, continuing: %v", err)
	}

	if blocked, reason := s.detector.IsBlocked(page); blocked {
		page.Close()
		return nil, fmt.Errorf("blocked at %s: %s", url, reason)
	}
	return page, nil
}

// botDetector recognizes bot walls, CAPTCHAs and block pages from page text.
type botDetector struct {
	botPatterns     []*regexp.Regexp
	captchaPatterns []*regexp.Regexp
	blockPatterns   []*regexp.Regexp
}

func newBotDetector() *botDetector {
	return &botDetector{
		botPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)access denied`),
			regexp.MustCompile(`(?i)bot detected`),
			regexp.MustCompile(`(?i)please verify you are human`),
			regexp.MustCompile(`(?i)security check`),
			regexp.MustCompile(`(?i)checking your browser`),
			regexp.MustCompile(`(?i)ddos protection`),
			regexp.MustCompile(`(?i)too many requests`),
			regexp.MustCompile(`(?i)unusual traffic`),
		},
		captchaPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)captcha`),
			regexp.MustCompile(`(?i)recaptcha`),
			regexp.MustCompile(`(?i)hcaptcha`),
			regexp.MustCompile(`(?i)turnstile`),
			regexp.MustCompile(`(?i)select all images`),
		},
		blockPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)403 forbidden`),
			regexp.MustCompile(`(?i)429 too many requests`),
			regexp.MustCompile(`(?i)503 service unavailable`),
			regexp.MustCompile(`(?i)site temporarily unavailable`),
		},
	}
}

// IsBlocked scores the page text against the block patterns. CAPTCHA hits
// weigh more than generic bot-wall phrasing; very short pages with any hit
// add extra weight.
func (bd *botDetector) IsBlocked(page *rod.Page) (bool, string) {
	title := ""
	if res, err := page.Eval("() => document.title"); err == nil {
		title = res.Value.Str()
	}
	body := ""
	if res, err := page.Eval("() => document.body ? document.body.innerText : ''"); err == nil {
		body = res.Value.Str()
	}
	content := strings.ToLower(body + " " + title)

	score := 0.0
	reasons := []string{}
	for _, pattern := range bd.botPatterns {
		if pattern.MatchString(content) {
			score += 0.3
			reasons = append(reasons, pattern.String())
		}
	}
	for _, pattern := range bd.captchaPatterns {
		if pattern.MatchString(content) {
			score += 0.5
			reasons = append(reasons, "captcha: "+pattern.String())
		}
	}
	for _, pattern := range bd.blockPatterns {
		if pattern.MatchString(content) {
			score += 0.4
			reasons = append(reasons, "http error: "+pattern.String())
		}
	}
	if len(content) < 1000 && score > 0 {
		score += 0.2
		reasons = append(reasons, "short page with block indicators")
	}

	return score > 0.3, strings.Join(reasons, "; ")
}
