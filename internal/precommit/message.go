package precommit

import "github.com/odoo-odev/odev-plugin-project/internal/odoo"

// CommitMessage generates the message for the commit recording the
// scaffolding changes. The verb reflects whether this run installed the
// configuration from scratch or updated an existing one.
func CommitMessage(version odoo.Version, freshInstall bool) string {
	action := "[IMP] Update"
	if freshInstall {
		action = "[ADD] Install"
	}

	return action + " `pre-commit` configuration\n" +
		"\n" +
		"Added automatically with [odev](https://github.com/odoo-odev/odev) using configuration templates\n" +
		"from [pre-commit-template](https://github.com/odoo-ps/psbe-ps-tech-tools/tree/pre-commit-template).\n" +
		"\n" +
		"Odoo version: " + version.String() + "\n" +
		"See: [pre-commit](https://github.com/odoo-ps/psbe-process/wiki/Development-common-practices#pre-commit)\n"
}
