package utils

import (
	"fmt"
	"strings"

	"github.com/elC0mpa/spot-allocator/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func DrawAllocationTable(accountId string, result *model.AllocationResult) {
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprint(" 🎯 BEST SPOT ALLOCATION"))
	fmt.Printf(" Account ID: %s\n", text.FgBlue.Sprint(accountId))
	fmt.Println(text.FgHiBlue.Sprint(" ------------------------------------------------"))

	tw := table.Table{}
	tw.AppendHeader(table.Row{"", ""})

	tw.AppendRows([]table.Row{
		{"Region", text.FgHiGreen.Sprint(result.Region)},
		{"Availability Zone", text.FgHiGreen.Sprint(result.ZoneName)},
		{"Instance Type", text.FgHiGreen.Sprint(result.InstanceType)},
		{"Placement Score", fmt.Sprintf("%d / 10", result.Score)},
		{"Avg Spot Price", fmt.Sprintf("$%.4f/h", result.AvgPrice)},
		{"Max Spot Price", fmt.Sprintf("$%.4f/h", result.MaxPrice)},
		{"Bid Price", text.FgHiYellow.Sprintf("$%.4f/h", result.BidPrice)},
	})

	if result.OnDemandPrice > 0 {
		tw.AppendRows([]table.Row{
			{"On-Demand Price", fmt.Sprintf("$%.4f/h", result.OnDemandPrice)},
			{"Savings", savingsCell(result.Savings)},
		})
	}

	if len(result.OfferedTypes) > 0 {
		tw.AppendRow(table.Row{"Offered Types", strings.Join(result.OfferedTypes, ", ")})
	}

	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{
			Number: 2,
			Align:  text.AlignRight,
		},
	})
	fmt.Println(tw.Render())
}

func DrawLaunchTable(instance *model.LaunchedInstance) {
	fmt.Printf("\n%s\n", text.FgHiWhite.Sprint(" 🚀 SPOT INSTANCE LAUNCHED"))
	fmt.Println(text.FgHiBlue.Sprint(" ------------------------------------------------"))

	tw := table.Table{}
	tw.AppendRows([]table.Row{
		{"Instance ID", text.FgHiGreen.Sprint(instance.InstanceID)},
		{"Spot Request", instance.SpotRequestID},
		{"State", instance.State},
		{"Availability Zone", instance.AvailabilityZone},
		{"Public IP", text.FgHiYellow.Sprint(instance.PublicIP)},
		{"Private IP", instance.PrivateIP},
		{"Security Group", instance.SecurityGroupID},
	})

	if instance.KeyName != "" {
		tw.AppendRow(table.Row{"Key Pair", instance.KeyName})
	}

	tw.SetStyle(table.StyleRounded)
	fmt.Println(tw.Render())
}

func savingsCell(savings float64) string {
	if savings >= 50 {
		return text.FgHiGreen.Sprintf("%.1f%% vs on-demand", savings)
	}
	if savings > 0 {
		return text.FgGreen.Sprintf("%.1f%% vs on-demand", savings)
	}

	return text.FgHiRed.Sprintf("%.1f%% vs on-demand", savings)
}
