package audit

// Actions recorded by the bridge.
const (
	ActionTokenIssued    = "token_issued"
	ActionConfigSaved    = "config_saved"
	ActionConfigRejected = "config_rejected"
	ActionConfigOverride = "config_override"
)

// ResourceConfig is the resource name of the Instancer configuration record.
const ResourceConfig = "zync_config"
