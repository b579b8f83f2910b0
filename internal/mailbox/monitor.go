package mailbox

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"strings"
	"sync"
	"time"

	"awareness-tool/internal/database"
	"awareness-tool/internal/models"
	"awareness-tool/internal/reportsvc"
	"awareness-tool/internal/resolver"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/jaytaylor/html2text"
	"github.com/jhillyerd/enmime"
)

const dialTimeout = 10 * time.Second

// Monitor pollt periodisch das konfigurierte IMAP-Postfach und verarbeitet
// ungelesene E-Mails mit ZIP-Anhang. Kein globaler Zustand: Konfiguration
// kommt pro Zyklus aus der Datenbank, der Scheduler-Zustand lebt im Struct.
type Monitor struct {
	processor *reportsvc.Processor

	mu      sync.Mutex
	stop    chan struct{}
	running bool
}

func NewMonitor(processor *reportsvc.Processor) *Monitor {
	return &Monitor{processor: processor}
}

// Start beginnt die Überwachung, falls sie in den Einstellungen aktiviert ist
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		log.Println("E-Mail-Monitoring läuft bereits")
		return
	}

	settings, err := loadSettings()
	if err != nil || !settings.MonitoringEnabled {
		log.Println("E-Mail-Monitoring nicht aktiviert oder keine Einstellungen vorhanden")
		return
	}

	m.running = true
	m.stop = make(chan struct{})
	go m.run(m.stop)
	log.Println("E-Mail-Monitoring gestartet")
}

// Stop beendet die Überwachung
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	close(m.stop)
	m.running = false
	log.Println("E-Mail-Monitoring gestoppt")
}

func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) run(stop chan struct{}) {
	// sofort beim Start prüfen, danach im konfigurierten Intervall
	m.checkCycle()

	for {
		settings, err := loadSettings()
		interval := 15
		if err == nil && settings.CheckInterval > 0 {
			interval = settings.CheckInterval
		}

		select {
		case <-stop:
			return
		case <-time.After(time.Duration(interval) * time.Minute):
			m.checkCycle()
		}
	}
}

// CheckNow stößt eine einzelne Prüfung außerhalb des Intervalls an
func (m *Monitor) CheckNow() error {
	settings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("E-Mail-Einstellungen konnten nicht geladen werden: %w", err)
	}
	if settings.IMAPHost == "" || settings.EmailUsername == "" {
		return fmt.Errorf("E-Mail-Einstellungen sind unvollständig")
	}
	return m.checkMailbox(settings)
}

func (m *Monitor) checkCycle() {
	settings, err := loadSettings()
	if err != nil || !settings.MonitoringEnabled {
		return
	}
	if err := m.checkMailbox(settings); err != nil {
		log.Printf("E-Mail-Prüfung fehlgeschlagen: %v", err)
	}
}

func loadSettings() (*models.EmailSettings, error) {
	var settings models.EmailSettings
	if err := database.DB.First(&settings, 1).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func updateLastCheck() {
	now := time.Now()
	if err := database.DB.Model(&models.EmailSettings{}).
		Where("id = ?", 1).
		Update("last_check", now).Error; err != nil {
		log.Printf("failed to update last_check: %v", err)
	}
}

// checkMailbox öffnet für einen Zyklus eine eigene Verbindung, holt alle
// ungelesenen Nachrichten und verarbeitet sie einzeln. Der Fehlschlag einer
// Nachricht bricht den Zyklus für die übrigen nicht ab.
func (m *Monitor) checkMailbox(settings *models.EmailSettings) error {
	log.Println("Prüfe E-Mail-Postfach auf neue ZIP-Dateien...")

	c, err := dial(settings.IMAPHost, settings.IMAPPort)
	if err != nil {
		return fmt.Errorf("IMAP-Verbindung fehlgeschlagen: %w", err)
	}
	defer c.Logout()

	if err := c.Login(settings.EmailUsername, settings.EmailPassword); err != nil {
		return fmt.Errorf("IMAP-Anmeldung fehlgeschlagen: %w", err)
	}

	folder := settings.MonitoringFolder
	if folder == "" {
		folder = "INBOX"
	}
	if _, err := c.Select(folder, false); err != nil {
		return fmt.Errorf("Postfach-Ordner konnte nicht geöffnet werden: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := c.Search(criteria)
	if err != nil {
		return fmt.Errorf("E-Mail-Suche fehlgeschlagen: %w", err)
	}
	if len(ids) == 0 {
		log.Println("Keine neuen E-Mails gefunden")
		updateLastCheck()
		return nil
	}
	log.Printf("%d neue E-Mail(s) gefunden", len(ids))

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, []imap.FetchItem{section.FetchItem()}, messages)
	}()

	// erst alle Nachrichten einsammeln, dann verarbeiten und als gelesen
	// markieren, nicht während der Fetch noch auf der Verbindung läuft
	type fetched struct {
		seqNum   uint32
		envelope *enmime.Envelope
	}
	var inbox []fetched
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		env, err := enmime.ReadEnvelope(body)
		if err != nil {
			log.Printf("E-Mail konnte nicht geparst werden: %v", err)
			continue
		}
		inbox = append(inbox, fetched{seqNum: msg.SeqNum, envelope: env})
	}
	if err := <-done; err != nil {
		return fmt.Errorf("Fetch-Fehler: %w", err)
	}

	for _, item := range inbox {
		if err := m.processMessage(item.envelope); err != nil {
			log.Printf("Fehler beim Verarbeiten der E-Mail %q: %v", item.envelope.GetHeader("Subject"), err)
		}
		// erst nach abgeschlossener Verarbeitung (Erfolg oder endgültiger
		// Fehlschlag) als gelesen markieren
		markSeen(c, item.seqNum)
	}

	log.Println("E-Mail-Prüfung abgeschlossen")
	updateLastCheck()
	return nil
}

func dial(host string, port int) (*client.Client, error) {
	dialer := &net.Dialer{Timeout: dialTimeout}
	addr := fmt.Sprintf("%s:%d", host, port)
	c, err := client.DialWithDialerTLS(dialer, addr, nil)
	if err != nil {
		return nil, err
	}
	c.Timeout = 30 * time.Second
	return c, nil
}

func markSeen(c *client.Client, seqNum uint32) {
	seq := new(imap.SeqSet)
	seq.AddNum(seqNum)
	op := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := c.Store(seq, op, []interface{}{imap.SeenFlag}, nil); err != nil {
		log.Printf("failed to mark message as seen: %v", err)
	}
}

// processMessage verarbeitet genau den ersten ZIP-Anhang einer Nachricht,
// mehrere Anhänge würden aus einem Kampagnen-Export doppelte Reports erzeugen
func (m *Monitor) processMessage(env *enmime.Envelope) error {
	log.Printf("Verarbeite E-Mail: %s", env.GetHeader("Subject"))

	var archive []byte
	for _, att := range env.Attachments {
		if strings.HasSuffix(strings.ToLower(att.FileName), ".zip") {
			archive = att.Content
			break
		}
	}
	if archive == nil {
		log.Println("Keine ZIP-Anhänge gefunden")
		return nil
	}

	msg := resolver.Message{
		Sender:  senderAddress(env.GetHeader("From")),
		Subject: env.GetHeader("Subject"),
		Body:    plainBody(env),
	}

	outcome, err := m.processor.ProcessInbound(archive, msg)
	if err != nil {
		return err
	}
	if outcome.Customer == nil {
		log.Printf("Kunde konnte nicht identifiziert werden. Absender: %s", msg.Sender)
	} else {
		log.Printf("ZIP-Datei erfolgreich verarbeitet für %s", outcome.Customer.Name)
	}
	return nil
}

func senderAddress(from string) string {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return strings.TrimSpace(from)
	}
	return addr.Address
}

func plainBody(env *enmime.Envelope) string {
	if env.Text != "" {
		return env.Text
	}
	if env.HTML != "" {
		if text, err := html2text.FromString(env.HTML); err == nil {
			return text
		}
	}
	return ""
}

// TestConnection prüft Zugangsdaten und Ordner, ohne etwas zu verarbeiten
func TestConnection(host string, port int, username, password, folder string) error {
	c, err := dial(host, port)
	if err != nil {
		return fmt.Errorf("IMAP-Verbindung fehlgeschlagen: %w", err)
	}
	defer c.Logout()

	if err := c.Login(username, password); err != nil {
		return fmt.Errorf("IMAP-Anmeldung fehlgeschlagen: %w", err)
	}
	if folder == "" {
		folder = "INBOX"
	}
	if _, err := c.Select(folder, true); err != nil {
		return fmt.Errorf("Ordner konnte nicht geöffnet werden: %w", err)
	}
	return nil
}
