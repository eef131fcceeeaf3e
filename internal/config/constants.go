package config

// Section names in conf/muchos.yaml.
const (
	SectionGeneral     = "general"
	SectionAnsibleVars = "ansible-vars"
	SectionPerformance = "performance"
	SectionExisting    = "existing"
	SectionNodes       = "nodes"
	SectionUpload      = "upload"
)

// Cluster types. Only ClusterTypeExisting can be managed by this tool.
const (
	ClusterTypeExisting = "existing"
	ClusterTypeEC2      = "ec2"
)

// Node types used in the node_type_map play variable.
const (
	NodeTypeDefault = "default"
	NodeTypeWorker  = "worker"
)

// Services that can be placed on nodes.
const (
	ServiceNamenode        = "namenode"
	ServiceResourceManager = "resourcemanager"
	ServiceAccumuloMaster  = "accumulomaster"
	ServiceZookeeper       = "zookeeper"
	ServiceWorker          = "worker"
	ServiceFluo            = "fluo"
	ServiceFluoYarn        = "fluo_yarn"
	ServiceMetrics         = "metrics"
	ServiceSpark           = "spark"
	ServiceMesosMaster     = "mesosmaster"
	ServiceSwarmManager    = "swarmmanager"
	ServiceClient          = "client"
)

// KnownServices lists every service name accepted in the nodes section.
var KnownServices = []string{
	ServiceNamenode,
	ServiceResourceManager,
	ServiceAccumuloMaster,
	ServiceZookeeper,
	ServiceWorker,
	ServiceFluo,
	ServiceFluoYarn,
	ServiceMetrics,
	ServiceSpark,
	ServiceMesosMaster,
	ServiceSwarmManager,
	ServiceClient,
}

// RequiredServices must each be placed on at least one node.
var RequiredServices = []string{
	ServiceNamenode,
	ServiceResourceManager,
	ServiceAccumuloMaster,
	ServiceZookeeper,
	ServiceWorker,
}

// Paths relative to the home directory.
const (
	ConfigFile    = "conf/muchos.yaml"
	ChecksumsFile = "conf/checksums"
	HostsDir      = "conf/hosts"
	KeysFile      = "conf/keys"
	UploadDir     = "conf/upload"
	AnsibleDir    = "ansible"
)
