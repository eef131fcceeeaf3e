package inventory

import (
	"fmt"
	"strings"

	"github.com/imamik/muchos/internal/config"
)

// sitePlaybooks is the order of site.yml. An empty service means the
// playbook is always imported.
var sitePlaybooks = []struct {
	name    string
	service string
}{
	{"common", ""},
	{"spark", config.ServiceSpark},
	{"hadoop", ""},
	{"zookeeper", ""},
	{"metrics", config.ServiceMetrics},
	{"accumulo", ""},
	{"fluo", config.ServiceFluo},
	{"fluo_yarn", config.ServiceFluoYarn},
	{"mesos", config.ServiceMesosMaster},
	{"docker", config.ServiceSwarmManager},
}

// Playbooks lists the playbook files imported by site.yml.
func Playbooks(cfg *config.Config) []string {
	var books []string
	for _, p := range sitePlaybooks {
		if p.service == "" || cfg.HasService(p.service) {
			books = append(books, p.name+".yml")
		}
	}
	return books
}

// SiteIndex renders site.yml.
func SiteIndex(cfg *config.Config) string {
	var b strings.Builder
	for _, book := range Playbooks(cfg) {
		fmt.Fprintf(&b, "- import_playbook: %s\n", book)
	}
	return b.String()
}
