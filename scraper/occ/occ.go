// Package occ adapts the OCC employer talent search to the scraper
// capability interfaces. Selectors live in an adapter-local table; nothing
// outside this package knows how the site is laid out.
package occ

import (
	"fmt"
	"strings"
	"time"

	"github.com/grupokc/rpa-reclutamiento/browser"
	"github.com/grupokc/rpa-reclutamiento/config"
	"github.com/grupokc/rpa-reclutamiento/models"
	"github.com/grupokc/rpa-reclutamiento/parser"
	"github.com/grupokc/rpa-reclutamiento/scraper"
	"github.com/grupokc/rpa-reclutamiento/utils"
)

const siteName = "occ"

func init() {
	scraper.Register(siteName, func(sess *browser.Session, cfg *config.Config, logger *utils.Logger) scraper.Site {
		return New(sess, cfg, logger)
	})
}

// selectors is the adapter's immutable selector table.
var selectors = struct {
	loginLink     string
	usernameInput string
	passwordInput string
	loginButton   string
	userMenu      string
	logoutLink    string

	talentLink     string
	locationSelect string
	keywordInput   string
	searchButton   string
	resultsPer50   string
	nextPage       string

	cardLink string
}{
	loginLink:     `#homehirers_inicio_signup`,
	usernameInput: `input[data-testid="login__user"]`,
	passwordInput: `input[data-testid="login__password"]`,
	loginButton:   `#login_creacioncuenta_iniciasesion`,
	userMenu:      `#header_menu_usuario`,
	logoutLink:    `#header_menu_cerrarsesion`,

	talentLink:     `a[href*="/empresas/candidatos"]`,
	locationSelect: `#Searchpage_Estado`,
	keywordInput:   `#Searchpage_Puesto`,
	searchButton:   `button[data-testid="form__submit"]`,
	resultsPer50:   `#Resultpage_Resultados50`,
	nextPage:       `#Resultpage_PaginadorPaginaSiguiente`,

	cardLink: `a[href*='/empresas/candidatos/cv/']`,
}

// Scraper drives the OCC talent search through one browser session.
type Scraper struct {
	sess   *browser.Session
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
	pacer  *utils.Pacer
}

// New creates an OCC adapter bound to a live session.
func New(sess *browser.Session, cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		sess:   sess,
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			MaxDelay:    30 * time.Second,
			Logger:      logger,
		},
		pacer: utils.NewPacer(cfg.PageDelayMs),
	}
}

func (s *Scraper) Name() string { return siteName }

// Login signs the session in. The form submit may land on a one-time-code
// challenge that only the operator can complete; the adapter treats that as
// a long bounded wait for the URL to move off the login flow.
func (s *Scraper) Login() error {
	if err := s.sess.Navigate(s.cfg.BaseURL); err != nil {
		return fmt.Errorf("occ: open base url: %w", err)
	}

	if !s.sess.IsVisible(selectors.loginLink) {
		// Already authenticated from a kept browser profile.
		s.logger.Info("[occ] Login link not present — assuming active session")
		return nil
	}

	if err := s.sess.Click(selectors.loginLink); err != nil {
		return fmt.Errorf("occ: open login form: %w", err)
	}
	if err := s.sess.Fill(selectors.usernameInput, s.cfg.Username); err != nil {
		return fmt.Errorf("occ: fill username: %w", err)
	}
	if err := s.sess.Fill(selectors.passwordInput, s.cfg.Password); err != nil {
		return fmt.Errorf("occ: fill password: %w", err)
	}

	beforeSubmit, _ := s.sess.CurrentURL()
	if err := s.sess.Click(selectors.loginButton); err != nil {
		return fmt.Errorf("occ: submit login: %w", err)
	}

	// Fast path: the user menu appears right away.
	if err := s.sess.WaitVisible(selectors.userMenu, s.cfg.ElementTimeout); err == nil {
		s.logger.Info("[occ] Login completed")
		return nil
	}

	s.logger.Warn("[occ] Post-login menu not visible yet — waiting for manual verification step (up to %v)", s.cfg.LoginTimeout)
	if err := s.sess.WaitURLChange(beforeSubmit, s.cfg.LoginTimeout); err != nil {
		return fmt.Errorf("occ: login not confirmed: %w", err)
	}
	if err := s.sess.WaitVisible(selectors.userMenu, s.cfg.ElementTimeout); err != nil {
		return fmt.Errorf("occ: user menu not visible after login: %w", err)
	}
	s.logger.Info("[occ] Login completed after manual step")
	return nil
}

// Logout closes the session best-effort; a failed logout only gets logged.
func (s *Scraper) Logout() {
	if err := s.sess.Click(selectors.userMenu); err != nil {
		s.logger.Warn("[occ] Logout: user menu not reachable: %v", err)
		return
	}
	if err := s.sess.Click(selectors.logoutLink); err != nil {
		s.logger.Warn("[occ] Logout: sign-out link not reachable: %v", err)
		return
	}
	s.logger.Info("[occ] Logged out")
}

// OpenPartition applies the keyword plus one location filter and lands on
// the first results page with 50 results per page.
func (s *Scraper) OpenPartition(keyword string, p config.Partition) error {
	s.pacer.Wait()

	if err := s.sess.Click(selectors.talentLink); err != nil {
		return fmt.Errorf("occ: open talent search: %w", err)
	}

	if p.Slug != "" {
		if err := s.sess.SelectOption(selectors.locationSelect, p.Slug); err != nil {
			return fmt.Errorf("occ: apply location filter %s: %w", p.Name, err)
		}
		s.logger.Info("[occ] Location filter applied: %s (%s)", p.Name, p.Slug)
	}

	if keyword != "" {
		if err := s.sess.Fill(selectors.keywordInput, keyword); err != nil {
			return fmt.Errorf("occ: fill keyword: %w", err)
		}
	}

	if err := s.sess.Click(selectors.searchButton); err != nil {
		return fmt.Errorf("occ: run search: %w", err)
	}

	// 50 results per page is an optimization, not a requirement.
	if err := s.sess.Click(selectors.resultsPer50); err != nil {
		s.logger.Warn("[occ] Could not switch to 50 results per page: %v", err)
	}
	s.sess.Sleep(2 * time.Second)
	return nil
}

// PageStubs extracts the stubs visible on the current results page. The
// embedded app-state payload is tried first; the card layout walk covers
// pages that render without it.
func (s *Scraper) PageStubs() ([]models.Candidate, error) {
	html, err := s.sess.Content()
	if err != nil {
		return nil, fmt.Errorf("occ: read results page: %w", err)
	}

	if stubs, err := parser.ExtractListingStubs(html); err == nil {
		s.logger.Debug("[occ] %d stubs from structured payload", len(stubs))
		return stubs, nil
	}

	stubs := extractCards(html)
	s.logger.Debug("[occ] %d stubs from card layout", len(stubs))
	return stubs, nil
}

// NextPage clicks through to the following results page. A missing next
// affordance means the partition's pagination is done.
func (s *Scraper) NextPage() (bool, error) {
	if !s.sess.IsVisible(selectors.nextPage) {
		return false, nil
	}
	s.pacer.Wait()
	if err := s.sess.Click(selectors.nextPage); err != nil {
		return false, fmt.Errorf("occ: advance page: %w", err)
	}
	s.sess.Sleep(2 * time.Second)
	return true, nil
}

// FetchDetail loads one profile's detail view and returns its HTML. A
// navigation timeout is degraded: whatever the tab has rendered is still
// captured and handed to the parser.
func (s *Scraper) FetchDetail(url string) (string, error) {
	s.pacer.Wait()

	navErr := s.retry.Do("detail-navigate", func() error {
		return s.sess.NavigateWithTimeout(url, s.cfg.DetailTimeout)
	})
	if navErr != nil {
		s.logger.Warn("[occ] Detail navigation degraded for %s: %v", url, navErr)
	}

	html, err := s.sess.Content()
	if err != nil {
		if navErr != nil {
			return "", fmt.Errorf("occ: detail fetch %s: %w", url, navErr)
		}
		return "", fmt.Errorf("occ: detail fetch %s: %w", url, err)
	}
	return html, navErr
}

// profileBaseURL prefixes relative card hrefs.
const profileBaseURL = "https://www.occ.com.mx"

// extractCards is the layout fallback for results pages: one anchor per
// candidate card, id encoded in the card's id attribute after the last "|".
func extractCards(html string) []models.Candidate {
	return parseCardHTML(html)
}

// absoluteURL resolves a card href against the site origin.
func absoluteURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return profileBaseURL + href
	}
	return href
}
