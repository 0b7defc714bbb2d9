// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package websnap

import (
	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// IsValidURL reports whether s is an absolute http or https URL with a host.
// Relative references, bare hostnames and non-web schemes are rejected; no
// other input sanitization takes place before navigation.
func IsValidURL(s string) bool {
	if s == "" {
		return false
	}
	parsed, err := urlParser.Parse(s)
	if err != nil {
		return false
	}
	proto := parsed.Protocol()
	if proto != "http:" && proto != "https:" {
		return false
	}
	return parsed.Hostname() != ""
}
