package naming

import "testing"

func TestNamingFunctions(t *testing.T) {
	app := "acs-assignment"

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "KeyPair",
			got:      KeyPair(app),
			expected: "acs-assignment-key",
		},
		{
			name:     "KeyFile",
			got:      KeyFile(app),
			expected: "acs-assignment-key.pem",
		},
		{
			name:     "VPC",
			got:      VPC(app),
			expected: "acs-assignment-vpc",
		},
		{
			name:     "PublicSubnet",
			got:      PublicSubnet(app, 1),
			expected: "acs-assignment Public Subnet-1",
		},
		{
			name:     "PrivateSubnet",
			got:      PrivateSubnet(app, 3),
			expected: "acs-assignment Private Subnet-3",
		},
		{
			name:     "SecurityGroup",
			got:      SecurityGroup(app),
			expected: "acs-assignment-security-group",
		},
		{
			name:     "ImageInstance",
			got:      ImageInstance(app),
			expected: "acs-assignment-image-creation-instance",
		},
		{
			name:     "Image",
			got:      Image(app, "0b4c2a9e-7d1f-4e55-9a40-1c3f2b8e6d77"),
			expected: "acs-assignment-image-0b4c2a9e",
		},
		{
			name:     "ImageShortID",
			got:      Image(app, "abc"),
			expected: "acs-assignment-image-abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}
