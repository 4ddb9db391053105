package common

import (
	"github.com/bwmarrin/discordgo"
)

// OptionMap indexes slash command options by name
func OptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// IntOption returns the named integer option, or def when it is absent
func IntOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string, def int64) int64 {
	if opt, ok := options[name]; ok {
		return opt.IntValue()
	}
	return def
}

// StringOption returns the named string option, or def when it is absent
func StringOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string, def string) string {
	if opt, ok := options[name]; ok {
		return opt.StringValue()
	}
	return def
}

// Subcommand splits a command into its subcommand name and options
func Subcommand(data discordgo.ApplicationCommandInteractionData) (string, map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	if len(data.Options) == 0 || data.Options[0].Type != discordgo.ApplicationCommandOptionSubCommand {
		return "", OptionMap(data.Options)
	}
	return data.Options[0].Name, OptionMap(data.Options[0].Options)
}
