// Package inventory renders a cluster configuration into the files the
// Ansible playbooks consume: the playbook index (site.yml), the grouped
// hosts file with its [all:vars] section, group_vars/all and the keys
// file.
//
// Rendering is deterministic: variables are emitted in sorted key order so
// repeated syncs of an unchanged configuration produce identical files.
package inventory
