package usecase

var baseRecommendations = []string{
	"Handle critical and high alerts first and move to the fixed versions.",
	"Check compatibility and enable auto-merge for patch and minor updates with green checks.",
	"Track packages without an available fix with their maintainers.",
}

var ecosystemRecommendations = []struct {
	ecosystems []string
	text       string
}{
	{[]string{"github_actions", "github-actions"}, "Update action tags in /.github/workflows and keep job permissions minimal."},
	{[]string{"npm"}, "Update package.json and the lockfile, then run the tests and the audit."},
	{[]string{"pip", "python"}, "Update requirements.txt and the lock file and verify library compatibility."},
	{[]string{"docker"}, "Update base images, pin digests, rebuild and rescan."},
	{[]string{"gomod", "go_modules", "go"}, "Update go.mod and go.sum and rerun the tests and builds."},
	{[]string{"maven", "gradle"}, "Update pom.xml or build.gradle and run the test suite."},
	{[]string{"cargo", "rust"}, "Run cargo update on Cargo.toml and validate binaries and tests."},
}

// Recommendations returns remediation advice for the ecosystems present.
func Recommendations(ecosystems []string) []string {
	present := make(map[string]bool, len(ecosystems))
	for _, e := range ecosystems {
		present[e] = true
	}

	result := append([]string(nil), baseRecommendations...)
	for _, r := range ecosystemRecommendations {
		for _, e := range r.ecosystems {
			if present[e] {
				result = append(result, r.text)
				break
			}
		}
	}
	return result
}
