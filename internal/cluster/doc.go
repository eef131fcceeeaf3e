// Package cluster performs muchos actions against a cluster of machines
// that were provisioned outside of muchos.
//
// Every action runs through a single proxy node: the rendered Ansible
// inventory and software tarballs are pushed to it, and playbooks are
// started on it. Operations run one at a time and stop at the first
// failure.
package cluster
