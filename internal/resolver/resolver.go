package resolver

import (
	"regexp"
	"strings"

	"awareness-tool/internal/analysis"
	"awareness-tool/internal/models"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Message enthält die für die Kundenerkennung relevanten Teile einer eingegangenen E-Mail
type Message struct {
	Sender  string
	Subject string
	Body    string
}

// Resolve versucht, einen eingegangenen Report einem Kunden zuzuordnen:
// 1. Absender-Adresse gleich hinterlegter Kunden-E-Mail
// 2. Kundenname als Teilstring in Betreff oder Text
// 3. Domain-Abgleich über E-Mail-Adressen in den CSV-Inhalten
// Ohne Treffer kommt nil zurück, es wird nie ein Kunde geraten.
func Resolve(msg Message, customers []models.Customer, records ...[]analysis.Record) *models.Customer {
	if c := bySenderAddress(msg.Sender, customers); c != nil {
		return c
	}
	if c := byNameSubstring(msg.Subject, msg.Body, customers); c != nil {
		return c
	}
	return ByDomains(HarvestDomains(records...), customers)
}

func bySenderAddress(sender string, customers []models.Customer) *models.Customer {
	sender = strings.ToLower(strings.TrimSpace(sender))
	if sender == "" {
		return nil
	}
	for i := range customers {
		if customers[i].Email != "" && strings.EqualFold(customers[i].Email, sender) {
			return &customers[i]
		}
	}
	return nil
}

func byNameSubstring(subject, body string, customers []models.Customer) *models.Customer {
	haystack := strings.ToLower(subject + "\n" + body)
	for i := range customers {
		name := strings.ToLower(strings.TrimSpace(customers[i].Name))
		if name == "" {
			continue
		}
		if strings.Contains(haystack, name) {
			return &customers[i]
		}
	}
	return nil
}

// HarvestDomains sammelt die Domains aller E-Mail-Adressen,
// die in den Feldwerten der Record-Sets vorkommen
func HarvestDomains(records ...[]analysis.Record) []string {
	seen := map[string]struct{}{}
	var domains []string

	for _, set := range records {
		for _, record := range set {
			for _, value := range record {
				for _, addr := range emailPattern.FindAllString(value, -1) {
					at := strings.LastIndex(addr, "@")
					domain := strings.ToLower(addr[at+1:])
					if _, ok := seen[domain]; ok {
						continue
					}
					seen[domain] = struct{}{}
					domains = append(domains, domain)
				}
			}
		}
	}
	return domains
}

// ByDomains gleicht die gefundenen Domains gegen die hinterlegte Kunden-Domain
// ab; Subdomains des Kunden zählen als Treffer
func ByDomains(domains []string, customers []models.Customer) *models.Customer {
	for i := range customers {
		customerDomain := strings.ToLower(strings.TrimSpace(customers[i].Domain))
		if customerDomain == "" {
			continue
		}
		for _, domain := range domains {
			if domain == customerDomain || strings.HasSuffix(domain, "."+customerDomain) {
				return &customers[i]
			}
		}
	}
	return nil
}
