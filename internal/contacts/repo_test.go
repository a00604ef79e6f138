package contacts

import (
	"reflect"
	"testing"
)

func TestBuildExistsQuery(t *testing.T) {
	tests := []struct {
		name      string
		firstName *string
		lastName  *string
		email     *string
		wantSQL   string
		wantArgs  []any
	}{
		{
			name:      "all fields present",
			firstName: strptr("Craig"),
			lastName:  strptr("Smith"),
			email:     strptr("craig@x.com"),
			wantSQL:   "SELECT EXISTS (SELECT 1 FROM contacts WHERE first_name = $1 AND last_name = $2 AND email = $3)",
			wantArgs:  []any{"Craig", "Smith", "craig@x.com"},
		},
		{
			name:      "nil email becomes IS NULL, not a parameter",
			firstName: strptr("Craig"),
			lastName:  strptr("Smith"),
			wantSQL:   "SELECT EXISTS (SELECT 1 FROM contacts WHERE first_name = $1 AND last_name = $2 AND email IS NULL)",
			wantArgs:  []any{"Craig", "Smith"},
		},
		{
			name:     "only email present renumbers parameters",
			email:    strptr("craig@x.com"),
			wantSQL:  "SELECT EXISTS (SELECT 1 FROM contacts WHERE first_name IS NULL AND last_name IS NULL AND email = $1)",
			wantArgs: []any{"craig@x.com"},
		},
		{
			name:     "all nil",
			wantSQL:  "SELECT EXISTS (SELECT 1 FROM contacts WHERE first_name IS NULL AND last_name IS NULL AND email IS NULL)",
			wantArgs: []any{},
		},
		{
			name:      "empty string is a value, not NULL",
			firstName: strptr("Craig"),
			lastName:  strptr("Smith"),
			email:     strptr(""),
			wantSQL:   "SELECT EXISTS (SELECT 1 FROM contacts WHERE first_name = $1 AND last_name = $2 AND email = $3)",
			wantArgs:  []any{"Craig", "Smith", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotArgs := buildExistsQuery("contacts", tt.firstName, tt.lastName, tt.email)
			if gotSQL != tt.wantSQL {
				t.Errorf("sql:\n got %s\nwant %s", gotSQL, tt.wantSQL)
			}
			if !reflect.DeepEqual(gotArgs, tt.wantArgs) {
				t.Errorf("args: got %v, want %v", gotArgs, tt.wantArgs)
			}
		})
	}
}
