package config

import "maps"

// hostVarDefaults are the recognized [all:vars] inventory variables. An
// empty value means no default. Never modified; see HostVarDefaults.
var hostVarDefaults = map[string]string{
	"accumulo_home":          "'{{ install_dir }}/accumulo-{{ accumulo_version }}'",
	"accumulo_instance":      "",
	"accumulo_major_version": "{{ accumulo_version.split('.')[0] }}",
	"accumulo_password":      "",
	"accumulo_tarball":       "accumulo-{{ accumulo_version }}-bin.tar.gz",
	"accumulo_version":       "",
	"cluster_group":          "",
	"cluster_type":           "",
	"cluster_user":           "",
	"default_data_dirs":      "",
	"download_software":      "",
	"fluo_home":              "'{{ install_dir }}/fluo-{{ fluo_version }}'",
	"fluo_tarball":           "fluo-{{ fluo_version }}-bin.tar.gz",
	"fluo_version":           "",
	"fluo_yarn_home":         "'{{ install_dir }}/fluo-yarn-{{ fluo_yarn_version }}'",
	"fluo_yarn_tarball":      "fluo-yarn-{{ fluo_yarn_version }}-bin.tar.gz",
	"fluo_yarn_version":      "",
	"hadoop_home":            "'{{ install_dir }}/hadoop-{{ hadoop_version }}'",
	"hadoop_major_version":   "{{ hadoop_version.split('.')[0] }}",
	"hadoop_tarball":         "hadoop-{{ hadoop_version }}.tar.gz",
	"hadoop_version":         "",
	"hdfs_root":              "hdfs://{{ groups['namenode'][0] }}:8020",
	"install_dir":            "",
	"install_hub":            "",
	"java_home":              "'/usr/lib/jvm/java'",
	"java_package":           "java-1.8.0-openjdk-devel",
	"maven_home":             "'{{ install_dir }}/apache-maven-{{ maven_version }}'",
	"maven_tarball":          "apache-maven-{{ maven_version }}-bin.tar.gz",
	"maven_version":          "3.6.3",
	"spark_home":             "'{{ install_dir }}/spark-{{ spark_version }}-bin-without-hadoop'",
	"spark_tarball":          "spark-{{ spark_version }}-bin-without-hadoop.tgz",
	"spark_version":          "",
	"tarballs_dir":           "'{{ user_home }}/tarballs'",
	"user_home":              "",
	"worker_data_dirs":       "",
	"zookeeper_client_port":  "2181",
	"zookeeper_connect":      "{% for host in groups['zookeepers'] %}{{ host }}:2181{% if not loop.last %},{% endif %}{% endfor %}",
	"zookeeper_home":         "'{{ install_dir }}/apache-zookeeper-{{ zookeeper_version }}-bin'",
	"zookeeper_tarball":      "apache-zookeeper-{{ zookeeper_version }}-bin.tar.gz",
	"zookeeper_version":      "",
}

// playVarDefaults are the recognized group_vars/all variables.
var playVarDefaults = map[string]string{
	"accumulo_dcache_size":             "",
	"accumulo_icache_size":             "",
	"accumulo_imap_size":               "",
	"accumulo_sha256":                  "",
	"accumulo_tserv_mem":               "",
	"fluo_sha256":                      "",
	"fluo_worker_instances_multiplier": "",
	"fluo_worker_mem_mb":               "",
	"fluo_worker_threads":              "",
	"fluo_yarn_sha256":                 "",
	"hadoop_sha256":                    "",
	"hub_home":                         "'{{ install_dir }}/hub-linux-amd64-{{ hub_version }}'",
	"hub_tarball":                      "hub-linux-amd64-{{ hub_version }}.tgz",
	"hub_version":                      "2.2.3",
	"metrics_drive_ids":                "",
	"mount_root":                       "",
	"node_type_map":                    "",
	"shutdown_delay_minutes":           "",
	"spark_sha256":                     "",
	"twill_reserve_mem_mb":             "",
	"yarn_nm_mem_mb":                   "",
	"zookeeper_sha256":                 "",
}

// HostVarDefaults returns a fresh copy of the inventory variable defaults.
func HostVarDefaults() map[string]string {
	return maps.Clone(hostVarDefaults)
}

// PlayVarDefaults returns a fresh copy of the playbook variable defaults.
func PlayVarDefaults() map[string]string {
	return maps.Clone(playVarDefaults)
}
