// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ValidatorNotFoundId Id = iota + 1
	ConfigLoadFailedId
	SettingsNotFoundId
	SchemaCompileFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	validatorNotFoundIssue = &Issue{
		id: ValidatorNotFoundId,
		mdMsg: `
# Validator not found!

The JSON Schema validator executable could not be started.

## Things you can try:
- Install the default validator:
~~~
$ pipx install check-jsonschema
~~~

- Point wzschema at another validator accepting ` + "`--schemafile`" + `:
~~~
$ WZSCHEMA_VALIDATOR="uvx check-jsonschema" wzschema
~~~

- Or validate in-process without any external tool:
~~~
$ wzschema check
~~~`,
		extLinks: []HttpLink{"https://check-jsonschema.readthedocs.io"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the expected schema.

## Things you can try:
- Show the effective configuration:
~~~
$ wzschema config show
~~~

- Check the error message above for the offending field
- Remove the file to fall back to built-in defaults`,
	}

	settingsNotFoundIssue = &Issue{
		id: SettingsNotFoundId,
		mdMsg: `
# Workspace settings not found!

` + "`wzschema check`" + ` reads its schema associations from the
` + "`json.schemas`" + ` section of the workspace settings file.

## Things you can try:
- Run from the workspace root (the directory holding ` + "`.vscode/`" + `)
- Set ` + "`settings_file`" + ` in ` + "`wzschema.cue`" + `

## Example:
~~~json
{
  "json.schemas": [
    {"fileMatch": ["items/Pet/*.img/img.json"], "url": "schemas/pet_item.schema.json"}
  ]
}
~~~`,
	}

	schemaCompileFailedIssue = &Issue{
		id: SchemaCompileFailedId,
		mdMsg: `
# Failed to compile schema!

A JSON Schema document is not valid JSON Schema (draft 7 unless it declares
another ` + "`$schema`" + `).

## Things you can try:
- Check the ` + "`$ref`" + ` targets exist under ` + "`schemas/`" + `
- Validate the schema document itself against its meta-schema`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

The validator exists but could not be executed.

## Things you can try:
- Make it executable:
~~~
$ chmod +x "$(command -v check-jsonschema)"
~~~`,
	}

	issues = map[Id]*Issue{
		validatorNotFoundIssue.Id():   validatorNotFoundIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		settingsNotFoundIssue.Id():    settingsNotFoundIssue,
		schemaCompileFailedIssue.Id(): schemaCompileFailedIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
