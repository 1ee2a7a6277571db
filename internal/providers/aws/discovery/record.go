package discovery

import "github.com/pankaj-dahiya-devops/account-discovery/internal/models"

func putString(r models.Record, key string, v *string) {
	if v != nil {
		r[key] = *v
	}
}

func putBool(r models.Record, key string, v *bool) {
	if v != nil {
		r[key] = *v
	}
}

func putEnum(r models.Record, key, v string) {
	if v != "" {
		r[key] = v
	}
}
