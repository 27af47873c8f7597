package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/longkey1/gemchat/internal/gemchat"
)

// Find returns the path of the named template. Later directories take
// precedence over earlier ones.
func Find(name string, promptDirs []string) (string, error) {
	promptFile := name
	if !strings.HasSuffix(promptFile, ".toml") {
		promptFile = promptFile + ".toml"
	}

	var promptPath string
	for _, promptDir := range promptDirs {
		candidatePath := filepath.Join(promptDir, promptFile)
		if _, err := os.Stat(candidatePath); err == nil {
			promptPath = candidatePath
		}
	}

	if promptPath == "" {
		return "", fmt.Errorf("prompt file '%s' not found in any of the prompt directories: %v", promptFile, promptDirs)
	}
	return promptPath, nil
}

// FormatMessage applies the named template to message.
// Returns the text to send as the user turn and the model the template asks
// for, if any. An empty promptName returns message unchanged.
//
// The wire request carries only conversation contents, so a system section
// is folded into the user turn.
func FormatMessage(message string, promptName string, promptDirs []string, args []string) (string, *string, error) {
	if promptName == "" {
		return message, nil, nil
	}

	promptPath, err := Find(promptName, promptDirs)
	if err != nil {
		return "", nil, err
	}

	promptTemplate, err := LoadPrompt(promptPath)
	if err != nil {
		return "", nil, fmt.Errorf("error loading prompt file: %w", err)
	}

	argMap, err := processArgs(args)
	if err != nil {
		return "", nil, fmt.Errorf("error processing arguments: %w", err)
	}

	replacer := placeholderReplacer(message, argMap)
	systemPrompt := replacer.Replace(promptTemplate.System)
	userPrompt := replacer.Replace(promptTemplate.User)

	if promptTemplate.Model != nil {
		if _, _, err := gemchat.ParseModelString(*promptTemplate.Model); err != nil {
			return "", nil, fmt.Errorf("invalid model format in prompt template: %w", err)
		}
	}

	if systemPrompt == "" {
		return userPrompt, promptTemplate.Model, nil
	}
	return fmt.Sprintf("System: %s\n\nUser: %s", systemPrompt, userPrompt), promptTemplate.Model, nil
}

// placeholderReplacer substitutes {{input}} and every {{key}} in one pass.
// Substituted text is never scanned again, so a value that itself contains
// a placeholder is kept literally.
func placeholderReplacer(input string, args map[string]string) *strings.Replacer {
	values := map[string]string{"input": input}
	for key, value := range args {
		values[key] = value
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, "{{"+key+"}}", values[key])
	}
	return strings.NewReplacer(pairs...)
}

// List returns the template names found under promptDirs, sorted, mapped to
// the directory that provides each. A name in a later directory shadows the
// same name in an earlier one.
func List(promptDirs []string) ([]string, map[string]string, error) {
	found := make(map[string]string)

	for _, promptDir := range promptDirs {
		if _, err := os.Stat(promptDir); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(promptDir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".toml") {
				return nil
			}

			relPath, err := filepath.Rel(promptDir, path)
			if err != nil {
				return nil
			}
			found[filepath.ToSlash(strings.TrimSuffix(relPath, ".toml"))] = promptDir
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("error walking prompt directory %s: %w", promptDir, err)
		}
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, found, nil
}

// processArgs processes the command line arguments and returns a map of key-value pairs
func processArgs(args []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
			arg = strings.Trim(arg, `"`)
		}

		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid argument format: %s. Expected format: key:value", arg)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		value = strings.ReplaceAll(value, `\:`, ":")
		value = strings.ReplaceAll(value, `\"`, `"`)

		if key == "input" {
			return nil, fmt.Errorf("'input' is a reserved keyword and cannot be used as a key")
		}
		result[key] = value
	}
	return result, nil
}
