package provision

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/elC0mpa/spot-allocator/model"
	"github.com/sirupsen/logrus"
)

const (
	securityGroupName = "spot-allocator"
	runningWaitLimit  = 5 * time.Minute
)

const userDataScript = `#!/bin/bash
set -e
hostnamectl set-hostname spot-allocator-node
`

// NewService builds the provisioning workflow for the winning region
func NewService(awsconfig aws.Config, region string) *service {
	regionCfg := awsconfig.Copy()
	regionCfg.Region = region

	return &service{
		client: ec2.NewFromConfig(regionCfg),
	}
}

// NewServiceWithClient injects the EC2 client, used by tests
func NewServiceWithClient(client EC2API) *service {
	return &service{
		client: client,
	}
}

// LaunchSpotInstance sequences the provisioning glue around an allocation
// result: key pair, security group, one-time spot request at the computed
// bid, then waits for the instance to reach running.
func (s *service) LaunchSpotInstance(ctx context.Context, result *model.AllocationResult, amiPattern, keyName string) (*model.LaunchedInstance, error) {
	imageID, err := s.latestImage(ctx, amiPattern)
	if err != nil {
		return nil, err
	}

	if keyName != "" {
		if err := s.ensureKeyPair(ctx, keyName); err != nil {
			return nil, err
		}
	}

	groupID, err := s.ensureSecurityGroup(ctx)
	if err != nil {
		return nil, err
	}

	input := &ec2.RunInstancesInput{
		ImageId:          aws.String(imageID),
		InstanceType:     types.InstanceType(result.InstanceType),
		MinCount:         aws.Int32(1),
		MaxCount:         aws.Int32(1),
		SecurityGroupIds: []string{groupID},
		Placement: &types.Placement{
			AvailabilityZone: aws.String(result.ZoneName),
		},
		InstanceMarketOptions: &types.InstanceMarketOptionsRequest{
			MarketType: types.MarketTypeSpot,
			SpotOptions: &types.SpotMarketOptions{
				MaxPrice:                     aws.String(fmt.Sprintf("%.6f", result.BidPrice)),
				SpotInstanceType:             types.SpotInstanceTypeOneTime,
				InstanceInterruptionBehavior: types.InstanceInterruptionBehaviorTerminate,
			},
		},
		UserData: aws.String(base64.StdEncoding.EncodeToString([]byte(userDataScript))),
	}
	if keyName != "" {
		input.KeyName = aws.String(keyName)
	}

	output, err := s.client.RunInstances(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("spot request in %s: %w", result.ZoneName, err)
	}
	if len(output.Instances) == 0 {
		return nil, fmt.Errorf("spot request in %s returned no instance", result.ZoneName)
	}

	instanceID := aws.ToString(output.Instances[0].InstanceId)

	logrus.Infof("waiting for %s to reach running", instanceID)
	waiter := ec2.NewInstanceRunningWaiter(s.client)
	describeInput := &ec2.DescribeInstancesInput{InstanceIds: []string{instanceID}}
	if err := waiter.Wait(ctx, describeInput, runningWaitLimit); err != nil {
		return nil, fmt.Errorf("instance %s never reached running: %w", instanceID, err)
	}

	described, err := s.client.DescribeInstances(ctx, describeInput)
	if err != nil {
		return nil, err
	}
	if len(described.Reservations) == 0 || len(described.Reservations[0].Instances) == 0 {
		return nil, fmt.Errorf("instance %s disappeared after launch", instanceID)
	}

	instance := described.Reservations[0].Instances[0]

	launched := &model.LaunchedInstance{
		InstanceID:       instanceID,
		SpotRequestID:    aws.ToString(instance.SpotInstanceRequestId),
		PublicIP:         aws.ToString(instance.PublicIpAddress),
		PrivateIP:        aws.ToString(instance.PrivateIpAddress),
		State:            string(instance.State.Name),
		KeyName:          keyName,
		SecurityGroupID:  groupID,
		AvailabilityZone: result.ZoneName,
	}

	return launched, nil
}

// latestImage resolves the pattern to the most recently created available
// image in this region
func (s *service) latestImage(ctx context.Context, namePattern string) (string, error) {
	output, err := s.client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("name"),
				Values: []string{namePattern},
			},
			{
				Name:   aws.String("state"),
				Values: []string{"available"},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(output.Images) == 0 {
		return "", fmt.Errorf("no image matches %q in the chosen region", namePattern)
	}

	images := output.Images
	sort.Slice(images, func(i, j int) bool {
		return aws.ToString(images[i].CreationDate) > aws.ToString(images[j].CreationDate)
	})

	return aws.ToString(images[0].ImageId), nil
}

func (s *service) ensureKeyPair(ctx context.Context, keyName string) error {
	_, err := s.client.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{
		KeyNames: []string{keyName},
	})
	if err == nil {
		return nil
	}

	created, err := s.client.CreateKeyPair(ctx, &ec2.CreateKeyPairInput{
		KeyName: aws.String(keyName),
	})
	if err != nil {
		return fmt.Errorf("creating key pair %s: %w", keyName, err)
	}

	pemFile := keyName + ".pem"
	if err := os.WriteFile(pemFile, []byte(aws.ToString(created.KeyMaterial)), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", pemFile, err)
	}

	logrus.Infof("created key pair %s, private key written to %s", keyName, pemFile)
	return nil
}

func (s *service) ensureSecurityGroup(ctx context.Context) (string, error) {
	existing, err := s.client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []types.Filter{
			{
				Name:   aws.String("group-name"),
				Values: []string{securityGroupName},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(existing.SecurityGroups) > 0 {
		return aws.ToString(existing.SecurityGroups[0].GroupId), nil
	}

	created, err := s.client.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:   aws.String(securityGroupName),
		Description: aws.String("SSH access for spot-allocator instances"),
	})
	if err != nil {
		return "", fmt.Errorf("creating security group: %w", err)
	}

	groupID := aws.ToString(created.GroupId)

	_, err = s.client.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId:    aws.String(groupID),
		IpProtocol: aws.String("tcp"),
		FromPort:   aws.Int32(22),
		ToPort:     aws.Int32(22),
		CidrIp:     aws.String("0.0.0.0/0"),
	})
	if err != nil {
		return "", fmt.Errorf("authorizing ssh ingress: %w", err)
	}

	return groupID, nil
}
