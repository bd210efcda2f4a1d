package releases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/valyala/fasttemplate"
	"go.uber.org/zap"

	"github.com/temirov/pkgvcs/internal/vcs"
)

const (
	// DefaultMessageTemplate is the commit message used when none is configured.
	DefaultMessageTemplate = "{{tag}}"

	messageTagPlaceholderConstant      = "tag"
	messageVersionPlaceholderConstant  = "version"
	messageFilesPlaceholderConstant    = "files"
	templateStartDelimiterConstant     = "{{"
	templateEndDelimiterConstant       = "}}"
	versionPrefixConstant              = "v"
	filesSeparatorConstant             = ", "
	repositoryPathFieldNameConstant    = "repository_path"
	tagNameFieldNameConstant           = "tag_name"
	filesFieldNameConstant             = "files"
	dryRunFieldNameConstant            = "dry_run"
	requiredValueMessageConstant       = "value required"
	detectorMissingMessageConstant     = "working copy detector not configured"
	repositoryNotFoundMessageConstant  = "working copy not found"
	tagExistsMessageConstant           = "tag already exists"
	dirtyWorktreeMessageConstant       = "working tree not clean"
	nothingToReleaseMessageConstant    = "release files unchanged"
	repositoryNotFoundTemplateConstant = "no working copy found at %s"
	tagExistsTemplateConstant          = "tag %s already exists in %s"
	dirtyWorktreeTemplateConstant      = "working tree %s has uncommitted changes outside the release files: %s"
	nothingToReleaseTemplateConstant   = "none of %s changed in %s"
	detectErrorTemplateConstant        = "unable to detect working copy at %s: %w"
	listTagsErrorTemplateConstant      = "unable to list tags: %w"
	cleanlinessErrorTemplateConstant   = "unable to check working tree: %w"
	templateErrorTemplateConstant      = "invalid commit message template %q: %w"
	stageErrorTemplateConstant         = "unable to stage %s: %w"
	commitErrorTemplateConstant        = "unable to commit release %s: %w"
	releasePlannedLogMessageConstant   = "release planned"
	releaseRecordedLogMessageConstant  = "release recorded"
)

var (
	// ErrDetectorNotConfigured indicates NewService received no detector.
	ErrDetectorNotConfigured = errors.New(detectorMissingMessageConstant)
	// ErrRepositoryNotFound indicates the repository path holds no known working copy.
	ErrRepositoryNotFound = errors.New(repositoryNotFoundMessageConstant)
	// ErrTagExists indicates the requested tag is already present.
	ErrTagExists = errors.New(tagExistsMessageConstant)
	// ErrDirtyWorktree indicates uncommitted changes to files other than the release files
	// when a clean tree is required.
	ErrDirtyWorktree = errors.New(dirtyWorktreeMessageConstant)
	// ErrNothingToRelease indicates that a clean-tree release found no changes in the release files.
	ErrNothingToRelease = errors.New(nothingToReleaseMessageConstant)
)

// InvalidInputError describes release option validation failures.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", inputError.FieldName, inputError.Message)
}

// WorkingCopyDetector resolves a path to a version control handle.
type WorkingCopyDetector interface {
	Detect(path string) (vcs.Handle, error)
}

// ServiceDependencies enumerates the collaborators required by Service.
type ServiceDependencies struct {
	Logger   *zap.Logger
	Detector WorkingCopyDetector
}

// Options configures a release.
type Options struct {
	RepositoryPath  string
	TagName         string
	Files           []string
	MessageTemplate string
	RequireClean    bool
	DryRun          bool
}

// Result describes a recorded or planned release.
type Result struct {
	RepositoryPath string   `json:"repository_path" yaml:"repository_path"`
	Kind           vcs.Kind `json:"kind" yaml:"kind"`
	TagName        string   `json:"tag" yaml:"tag"`
	Message        string   `json:"message" yaml:"message"`
	Files          []string `json:"files" yaml:"files"`
	DryRun         bool     `json:"dry_run" yaml:"dry_run"`
}

// TextLines summarizes the release for console output.
func (result Result) TextLines() []string {
	verb := "Released"
	if result.DryRun {
		verb = "Would release"
	}
	return []string{fmt.Sprintf("%s %s in %s: %s", verb, result.TagName, result.RepositoryPath, result.Message)}
}

// Service commits and tags release files.
type Service struct {
	logger   *zap.Logger
	detector WorkingCopyDetector
}

// NewService constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Detector == nil {
		return nil, ErrDetectorNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, detector: dependencies.Detector}, nil
}

// Release validates the working copy, stages the files, then commits them and tags the commit.
// The tag must not exist yet. With RequireClean the release files must carry changes and
// no other tracked file may be modified.
// A dry run stops after validation and reports the commit that would be made.
func (service *Service) Release(executionContext context.Context, options Options) (Result, error) {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(repositoryPath) == 0 {
		return Result{}, InvalidInputError{FieldName: repositoryPathFieldNameConstant, Message: requiredValueMessageConstant}
	}
	tagName := strings.TrimSpace(options.TagName)
	if len(tagName) == 0 {
		return Result{}, InvalidInputError{FieldName: tagNameFieldNameConstant, Message: requiredValueMessageConstant}
	}
	files := normalizeFiles(options.Files)
	if len(files) == 0 {
		return Result{}, InvalidInputError{FieldName: filesFieldNameConstant, Message: requiredValueMessageConstant}
	}

	handle, detectError := service.detector.Detect(repositoryPath)
	if detectError != nil {
		return Result{}, fmt.Errorf(detectErrorTemplateConstant, repositoryPath, detectError)
	}
	if handle == nil {
		return Result{}, fmt.Errorf("%w: "+repositoryNotFoundTemplateConstant, ErrRepositoryNotFound, repositoryPath)
	}

	existingTags, tagsError := handle.Tags(executionContext)
	if tagsError != nil {
		return Result{}, fmt.Errorf(listTagsErrorTemplateConstant, tagsError)
	}
	for _, existingTag := range existingTags {
		if existingTag == tagName {
			return Result{}, fmt.Errorf("%w: "+tagExistsTemplateConstant, ErrTagExists, tagName, handle.WorkingDirectory())
		}
	}

	if options.RequireClean {
		if cleanlinessError := verifyOnlyReleaseFilesChanged(executionContext, handle, files); cleanlinessError != nil {
			return Result{}, cleanlinessError
		}
	}

	message, renderError := RenderMessage(options.MessageTemplate, tagName, files)
	if renderError != nil {
		return Result{}, renderError
	}

	result := Result{
		RepositoryPath: handle.WorkingDirectory(),
		Kind:           handle.Kind(),
		TagName:        tagName,
		Message:        message,
		Files:          files,
		DryRun:         options.DryRun,
	}
	logFields := []zap.Field{
		zap.String(repositoryPathFieldNameConstant, result.RepositoryPath),
		zap.String(tagNameFieldNameConstant, tagName),
		zap.Strings(filesFieldNameConstant, files),
		zap.Bool(dryRunFieldNameConstant, options.DryRun),
	}
	if options.DryRun {
		service.logger.Info(releasePlannedLogMessageConstant, logFields...)
		return result, nil
	}

	for _, file := range files {
		if stageError := handle.MarkForCommit(executionContext, file); stageError != nil {
			return Result{}, fmt.Errorf(stageErrorTemplateConstant, file, stageError)
		}
	}
	if commitError := handle.Commit(executionContext, message, tagName); commitError != nil {
		return Result{}, fmt.Errorf(commitErrorTemplateConstant, tagName, commitError)
	}

	service.logger.Info(releaseRecordedLogMessageConstant, logFields...)
	return result, nil
}

// RenderMessage expands {{tag}}, {{version}} and {{files}} in messageTemplate.
// {{version}} is the tag without a leading "v". Unknown placeholders are kept verbatim.
// An empty template or an empty rendering falls back to the tag name.
func RenderMessage(messageTemplate string, tagName string, files []string) (string, error) {
	if len(strings.TrimSpace(messageTemplate)) == 0 {
		messageTemplate = DefaultMessageTemplate
	}

	parsedTemplate, parseError := fasttemplate.NewTemplate(messageTemplate, templateStartDelimiterConstant, templateEndDelimiterConstant)
	if parseError != nil {
		return "", fmt.Errorf(templateErrorTemplateConstant, messageTemplate, parseError)
	}

	values := map[string]string{
		messageTagPlaceholderConstant:     tagName,
		messageVersionPlaceholderConstant: strings.TrimPrefix(tagName, versionPrefixConstant),
		messageFilesPlaceholderConstant:   strings.Join(files, filesSeparatorConstant),
	}
	rendered := parsedTemplate.ExecuteFuncString(func(writer io.Writer, placeholder string) (int, error) {
		value, known := values[strings.TrimSpace(placeholder)]
		if !known {
			return writer.Write([]byte(templateStartDelimiterConstant + placeholder + templateEndDelimiterConstant))
		}
		return writer.Write([]byte(value))
	})

	if len(strings.TrimSpace(rendered)) == 0 {
		return tagName, nil
	}
	return rendered, nil
}

func verifyOnlyReleaseFilesChanged(executionContext context.Context, handle vcs.Handle, files []string) error {
	modifiedFiles, modifiedError := handle.ModifiedFiles(executionContext)
	if modifiedError != nil {
		return fmt.Errorf(cleanlinessErrorTemplateConstant, modifiedError)
	}

	releaseFiles := make(map[string]struct{}, len(files))
	for _, file := range files {
		releaseFiles[comparablePath(file)] = struct{}{}
	}

	releaseFileChanged := false
	unrelatedChanges := []string{}
	for _, modifiedFile := range modifiedFiles {
		if _, isReleaseFile := releaseFiles[comparablePath(modifiedFile)]; isReleaseFile {
			releaseFileChanged = true
			continue
		}
		unrelatedChanges = append(unrelatedChanges, modifiedFile)
	}

	if len(unrelatedChanges) > 0 {
		return fmt.Errorf("%w: "+dirtyWorktreeTemplateConstant, ErrDirtyWorktree, handle.WorkingDirectory(), strings.Join(unrelatedChanges, filesSeparatorConstant))
	}
	if !releaseFileChanged {
		return fmt.Errorf("%w: "+nothingToReleaseTemplateConstant, ErrNothingToRelease, strings.Join(files, filesSeparatorConstant), handle.WorkingDirectory())
	}
	return nil
}

// comparablePath puts a work-tree-relative path in the slash-separated form git reports.
func comparablePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

func normalizeFiles(files []string) []string {
	normalized := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		trimmedFile := strings.TrimSpace(file)
		if len(trimmedFile) == 0 {
			continue
		}
		if _, duplicate := seen[trimmedFile]; duplicate {
			continue
		}
		seen[trimmedFile] = struct{}{}
		normalized = append(normalized, trimmedFile)
	}
	return normalized
}
