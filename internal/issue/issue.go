// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ContainerEngineNotFoundId Id = iota + 1
	PlaybookDirNotFoundId
	InvalidPlaybookArgsId
	PlaybookFailedId
	GalaxyInstallFailedId
	ImagePullFailedId
	SSHKeyNotFoundId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
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
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

Playbooks run inside a container, but no container engine is available.

## Supported container engines:
- **Podman** (recommended for rootless containers)
- **Docker**

## Things you can try:
- Install Podman:
  - Linux: ` + "`sudo apt install podman`" + ` or ` + "`sudo dnf install podman`" + `
  - macOS: ` + "`brew install podman`" + `
  - Windows: Download from https://podman.io

- Install Docker:
  - https://docs.docker.com/get-docker/

- Pick your preferred engine in ~/.config/ansiblectl/config.cue:
~~~cue
container_engine: "podman"  // or "docker", "auto"
~~~`,
	}

	playbookDirNotFoundIssue = &Issue{
		id: PlaybookDirNotFoundId,
		mdMsg: `
# Playbook directory not found!

The directory that should be mounted into the Ansible container does not
exist or is not a directory.

## Things you can try:
- Check the --dir flag (default is the current directory):
~~~
$ ansiblectl run site.yml --dir ./deploy
~~~

- Verify the path exists and is a directory:
~~~
$ ls -la ./deploy
~~~`,
	}

	invalidPlaybookArgsIssue = &Issue{
		id: InvalidPlaybookArgsId,
		mdMsg: `
# Invalid playbook arguments!

One or more of the playbook, inventory, variables, or tags you supplied
was rejected before anything ran.

## Rules:
- The playbook path must be non-empty and must not start with "-"
- Extra variables use **key=value** form with a non-empty key:
~~~
$ ansiblectl run site.yml -e env=production -e version=1.2.3
~~~
- Tags must be non-empty and must not contain commas; repeat the flag instead:
~~~
$ ansiblectl run site.yml -t deploy -t config
~~~`,
	}

	playbookFailedIssue = &Issue{
		id: PlaybookFailedId,
		mdMsg: `
# Playbook run failed!

ansible-playbook exited with a non-zero status. The exit code is ansible's
own verdict: failed tasks, unreachable hosts, or a parse error.

## Things you can try:
- Read the PLAY RECAP above for which hosts failed
- Run with verbose mode for more details:
~~~
$ ansiblectl --verbose run site.yml
~~~

- Reproduce interactively inside the container:
~~~
$ ansiblectl debug
/work $ ansible-playbook site.yml -vvv
~~~`,
	}

	galaxyInstallFailedIssue = &Issue{
		id: GalaxyInstallFailedId,
		mdMsg: `
# Galaxy collection install failed!

ansible-galaxy could not install the collections from your requirements
manifest.

## Common causes:
- The requirements file does not exist in the mounted directory
- A collection name or version in the manifest is wrong
- Galaxy (or a private Automation Hub) is unreachable from the container

## Things you can try:
- Check the manifest path (default is requirements.yml):
~~~
$ ansiblectl galaxy install -r requirements.yml
~~~

- Inspect the manifest inside the container:
~~~
$ ansiblectl debug
/work $ cat requirements.yml
~~~`,
	}

	imagePullFailedIssue = &Issue{
		id: ImagePullFailedId,
		mdMsg: `
# Image pull failed!

The Ansible container image could not be pulled from the registry.

## Common causes:
- No network connectivity or a proxy in the way
- The registry is down or rate-limiting pulls
- The configured image reference does not exist

## Things you can try:
- Pull the image manually to see the full error:
~~~
$ docker pull alpine/ansible:latest
~~~

- Check the image setting in ~/.config/ansiblectl/config.cue:
~~~cue
image: "alpine/ansible:latest"
~~~`,
	}

	sshKeyNotFoundIssue = &Issue{
		id: SSHKeyNotFoundId,
		mdMsg: `
# SSH key not found!

The private key passed via --ssh-key could not be read.

## Things you can try:
- Check the path and permissions:
~~~
$ ls -l ~/.ssh/id_ed25519
~~~

- The key is mounted read-only into the container and exposed through
  ANSIBLE_PRIVATE_KEY_FILE; it is never copied into the image.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the ansiblectl configuration file.

## Configuration file locations:
- Linux: ~/.config/ansiblectl/config.cue
- macOS: ~/Library/Application Support/ansiblectl/config.cue
- Windows: %APPDATA%\ansiblectl\config.cue

## Things you can try:
- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/ansiblectl/config.cue
~~~

## Example configuration:
~~~cue
container_engine: "podman"
image: "alpine/ansible:latest"
mount_path: "/work"

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	issues = map[Id]*Issue{
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		playbookDirNotFoundIssue.Id():     playbookDirNotFoundIssue,
		invalidPlaybookArgsIssue.Id():     invalidPlaybookArgsIssue,
		playbookFailedIssue.Id():          playbookFailedIssue,
		galaxyInstallFailedIssue.Id():     galaxyInstallFailedIssue,
		imagePullFailedIssue.Id():         imagePullFailedIssue,
		sshKeyNotFoundIssue.Id():          sshKeyNotFoundIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
